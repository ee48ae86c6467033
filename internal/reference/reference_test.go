package reference

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var refPattern = regexp.MustCompile(`^[A-Z]+-\d{6}-[A-Z0-9]{3}$`)

func TestNewMatchesFormat(t *testing.T) {
	g := NewGenerator("EVT")
	for i := 0; i < 50; i++ {
		ref := g.New()
		assert.Regexp(t, refPattern, ref)
		assert.True(t, strings.HasPrefix(ref, "EVT-"))
	}
}

func TestDefaultPrefix(t *testing.T) {
	g := NewGenerator("")
	assert.True(t, strings.HasPrefix(g.New(), "EVT-"))
}

func TestTimeComponent(t *testing.T) {
	g := NewGenerator("GALA")
	g.now = func() time.Time { return time.Unix(1734567890, 0) }

	ref := g.New()
	// 1734567890 % 1_000_000 == 567890
	assert.Equal(t, "GALA-567890", ref[:11])
}

func TestSuffixVaries(t *testing.T) {
	g := NewGenerator("EVT")
	g.now = func() time.Time { return time.Unix(1734567890, 0) }

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[g.New()] = true
	}
	// 200 draws over a 36^3 suffix space should not all land on one value.
	assert.Greater(t, len(seen), 1)
}
