package tspdio

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// Overlay is the restricted-instance prefix: an optional drone range cap
// and forbidden/no-visit location index lists, parsed ahead of whatever
// base instance format follows it.
type Overlay struct {
	MaxFly    float64
	HasMaxFly bool
	Forbidden []int
	NoVisit   []int
}

// ParseOverlay consumes every leading "#MAXFLY"/"#FORBID"/"#NOVISIT" line
// of input (after stripping /* ... */ comments) and returns the overlay
// plus the remaining text, unconsumed, for a base-format reader to parse.
func ParseOverlay(input string) (Overlay, string, error) {
	lines := strings.Split(stripComments(input), "\n")
	var ov Overlay
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return Overlay{}, "", tsperr.New(tsperr.InvalidInput, "malformed overlay directive: "+line)
		}
		switch fields[0] {
		case "#MAXFLY":
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return Overlay{}, "", tsperr.Wrap(tsperr.InvalidInput, "malformed #MAXFLY value", err)
			}
			ov.MaxFly, ov.HasMaxFly = v, true
		case "#FORBID":
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				return Overlay{}, "", tsperr.Wrap(tsperr.InvalidInput, "malformed #FORBID index", err)
			}
			ov.Forbidden = append(ov.Forbidden, idx)
		case "#NOVISIT":
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				return Overlay{}, "", tsperr.Wrap(tsperr.InvalidInput, "malformed #NOVISIT index", err)
			}
			ov.NoVisit = append(ov.NoVisit, idx)
		default:
			return Overlay{}, "", tsperr.New(tsperr.InvalidInput, "unknown overlay directive: "+fields[0])
		}
	}
	return ov, strings.Join(lines[i:], "\n"), nil
}

// Apply wraps base with ov's range and forbidden/no-visit rules. An
// overlay with no #MAXFLY line imposes no drone-range restriction at all.
func (ov Overlay) Apply(base instance.Instance) *instance.RestrictedInstance {
	maxFly := ov.MaxFly
	if !ov.HasMaxFly {
		maxFly = math.Inf(1)
	}
	return instance.NewRestricted(base, maxFly, ov.Forbidden, ov.NoVisit)
}

// WriteOverlay writes ov's directive lines ahead of whatever base-format
// writer the caller invokes next on the same io.Writer.
func WriteOverlay(w io.Writer, ov Overlay) error {
	if ov.HasMaxFly {
		if _, err := fmt.Fprintf(w, "#MAXFLY %g\n", ov.MaxFly); err != nil {
			return err
		}
	}
	for _, idx := range ov.Forbidden {
		if _, err := fmt.Fprintf(w, "#FORBID %d\n", idx); err != nil {
			return err
		}
	}
	for _, idx := range ov.NoVisit {
		if _, err := fmt.Fprintf(w, "#NOVISIT %d\n", idx); err != nil {
			return err
		}
	}
	return nil
}
