package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ardenlx/book-go/internal/domain"
)

// CalendarPubSub broadcasts calendar mutations so the visual calendar widget
// can refresh without polling.
type CalendarPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewCalendarPubSub(rdb *redis.Client) *CalendarPubSub {
	return &CalendarPubSub{
		rdb:     rdb,
		channel: ChannelCalendarChanged(),
	}
}

type calendarChangedMsg struct {
	Type   string `json:"type"`
	Date   string `json:"date"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *CalendarPubSub) PublishCalendarChanged(ctx context.Context, date time.Time) error {
	msg := calendarChangedMsg{
		Type:   "calendar_changed",
		Date:   date.Format(domain.DateFormat),
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *CalendarPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, date time.Time)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev calendarChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
				continue
			}
			if d, err := time.Parse(domain.DateFormat, ev.Date); err == nil {
				handler(ctx, d)
			}
		}
	}
}
