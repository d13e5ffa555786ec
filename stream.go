package gobanlist

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Verdict lines written by Check.
const (
	verdictBad  = "Bad"
	verdictGood = "Good"
)

// Check runs the line-oriented protocol: the first line holds a count N
// followed by N banlist entries, then a count M followed by M query domains.
// For every query it writes exactly "Bad" or "Good" on its own line, in input
// order. Trailing carriage returns are stripped, nothing else is normalized.
//
// Any extra domains are merged into the banlist before queries run.
func Check(in io.Reader, out io.Writer, extra ...Domain) error {
	scanner := bufio.NewScanner(in)

	forbidden, err := readDomains(scanner, "banlist")
	if err != nil {
		return err
	}
	checker := NewChecker(forbidden...)
	for _, d := range extra {
		checker.Add(d)
	}

	queries, err := readDomains(scanner, "queries")
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, q := range queries {
		verdict := verdictGood
		if checker.IsForbidden(q) {
			verdict = verdictBad
		}
		if _, err := w.WriteString(verdict); err != nil {
			return errors.Wrap(err, "write verdict")
		}
		if err := w.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write verdict")
		}
	}
	return errors.Wrap(w.Flush(), "flush output")
}

// readDomains reads a count line and then that many domain lines.
func readDomains(scanner *bufio.Scanner, section string) ([]Domain, error) {
	count, err := readCount(scanner)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s count", section)
	}

	domains := make([]Domain, 0, count)
	for i := 0; i < count; i++ {
		line, err := readLine(scanner)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s line %d of %d", section, i+1, count)
		}
		domains = append(domains, NewDomain(line))
	}
	return domains, nil
}

func readCount(scanner *bufio.Scanner) (int, error) {
	line, err := readLine(scanner)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errors.Wrapf(err, "parse count %q", line)
	}
	if n < 0 {
		return 0, errors.Errorf("negative count %d", n)
	}
	return n, nil
}

// readLine returns the next line without its terminator. bufio.ScanLines
// already drops a trailing '\r', which covers CRLF input.
func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("unexpected end of input")
	}
	return scanner.Text(), nil
}
