package analyzer

import "regexp"

// IPv4Pattern matches dotted quads with every octet in 0-255. There are no
// word boundaries, so "1.2.3.4abc" yields "1.2.3.4".
const IPv4Pattern = `((25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(25[0-5]|2[0-4]\d|1?\d?\d)`

// maxMatchLen is the length of the longest possible match, "255.255.255.255".
const maxMatchLen = 15

var ipv4Re = regexp.MustCompile(IPv4Pattern)

// Extractor pulls IPv4-shaped tokens out of a line. A *regexp.Regexp is safe
// for concurrent use, so one Extractor is shared by every worker.
type Extractor struct {
	re *regexp.Regexp
}

func NewExtractor() *Extractor {
	return &Extractor{re: ipv4Re}
}

// Extract returns the leftmost non-overlapping matches in line. Only the
// matches are copied out of the buffer, so line may be reused by the caller.
func (e *Extractor) Extract(line []byte) []string {
	found := e.re.FindAll(line, -1)
	if len(found) == 0 {
		return nil
	}
	out := make([]string, len(found))
	for i, m := range found {
		out[i] = string(m)
	}
	return out
}

// ExtractPartial is Extract for a window that the line continues past. It
// returns only matches that more input cannot change, plus the offset where
// the undecided remainder starts. The caller prepends window[rest:] to the
// next chunk of the same line.
func (e *Extractor) ExtractPartial(window []byte) (ips []string, rest int) {
	cut := len(window) - maxMatchLen
	if cut <= 0 {
		return nil, 0
	}
	rest = cut
	for _, loc := range e.re.FindAllIndex(window, -1) {
		if loc[0] >= cut {
			break
		}
		ips = append(ips, string(window[loc[0]:loc[1]]))
		if loc[1] > rest {
			rest = loc[1]
		}
	}
	return ips, rest
}
