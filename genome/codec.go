package genome

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Precision is the number of decimal places preserved by Encode.
const Precision = 4

// DecodeError reports a malformed or out-of-domain genome encoding.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("genome decode: %s: %s", e.Field, e.Reason)
}

// fieldOrder is the canonical encoding order.
var fieldOrder = []string{"R", "T", "m", "s", "b", "kn", "gn"}

// Encode serializes the genome as a compact parameter string such as
// "R=13;T=10;m=0.15;s=0.017;b=1;kn=1;gn=1". Real fields are written at
// Precision decimal places (trailing zeros trimmed), so the encoding is
// lossless for quantized genomes and deterministic for all.
func (g Genome) Encode() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "R=%d;T=%d;m=%s;s=%s;b=", g.R, g.T, formatReal(g.M), formatReal(g.S))
	for i, b := range g.B {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatReal(b))
	}
	fmt.Fprintf(&sb, ";kn=%d;gn=%d", int(g.KN), int(g.GN))
	return sb.String()
}

// Decode parses an encoded genome string. It fails with a *DecodeError
// when the syntax is malformed, a field is missing or repeated, or any
// value falls outside its declared domain. Values are never clamped.
func Decode(s string) (Genome, error) {
	var g Genome
	seen := make(map[string]bool, len(fieldOrder))
	for _, part := range strings.Split(s, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return Genome{}, &DecodeError{Field: part, Reason: "expected key=value"}
		}
		if seen[key] {
			return Genome{}, &DecodeError{Field: key, Reason: "duplicate field"}
		}
		seen[key] = true

		switch key {
		case "R":
			n, err := parseInt(val)
			if err != nil {
				return Genome{}, &DecodeError{Field: "R", Reason: err.Error()}
			}
			g.R = n
		case "T":
			n, err := parseInt(val)
			if err != nil {
				return Genome{}, &DecodeError{Field: "T", Reason: err.Error()}
			}
			g.T = n
		case "m":
			f, err := parseReal(val)
			if err != nil {
				return Genome{}, &DecodeError{Field: "m", Reason: err.Error()}
			}
			g.M = f
		case "s":
			f, err := parseReal(val)
			if err != nil {
				return Genome{}, &DecodeError{Field: "s", Reason: err.Error()}
			}
			g.S = f
		case "b":
			for i, item := range strings.Split(val, ",") {
				f, err := parseReal(item)
				if err != nil {
					return Genome{}, &DecodeError{Field: "b", Reason: fmt.Sprintf("ring %d: %v", i, err)}
				}
				g.B = append(g.B, f)
			}
		case "kn":
			n, err := parseInt(val)
			if err != nil {
				return Genome{}, &DecodeError{Field: "kn", Reason: err.Error()}
			}
			g.KN = KernelShape(n)
		case "gn":
			n, err := parseInt(val)
			if err != nil {
				return Genome{}, &DecodeError{Field: "gn", Reason: err.Error()}
			}
			g.GN = GrowthShape(n)
		default:
			return Genome{}, &DecodeError{Field: key, Reason: "unknown field"}
		}
	}

	for _, req := range fieldOrder {
		if !seen[req] {
			return Genome{}, &DecodeError{Field: req, Reason: "missing"}
		}
	}
	if err := g.Validate(); err != nil {
		return Genome{}, err
	}
	return g, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	return n, nil
}

func parseReal(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return f, nil
}

func formatReal(v float64) string {
	return strconv.FormatFloat(quantize(v), 'f', -1, 64)
}

var quantScale = math.Pow(10, Precision)

func quantize(v float64) float64 {
	return math.Round(v*quantScale) / quantScale
}
