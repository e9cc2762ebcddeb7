package stats

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/survey"
)

// Coverage counts how the cells of one categorical column map onto its
// encoding.
type Coverage struct {
	Encoding *features.Encoding

	// Known counts cells per declared level, in code order.
	Known []int
	// Unknown counts non-null cells with no code, by their raw value.
	Unknown map[string]int
	Nulls   int
}

func newCoverage(e *features.Encoding) *Coverage {
	return &Coverage{
		Encoding: e,
		Known:    make([]int, len(e.Levels())),
		Unknown:  make(map[string]int),
	}
}

func (c *Coverage) add(v any) {
	s, ok := v.(string)
	if !ok {
		c.Nulls++
		return
	}
	code, found := c.Encoding.Code(s)
	if !found {
		c.Unknown[s]++
		return
	}
	c.Known[int(code)]++
}

// Rate is the share of all cells that encode to a known level.
func (c *Coverage) Rate() float64 {
	known := 0
	for _, n := range c.Known {
		known += n
	}
	total := known + c.Nulls
	for _, n := range c.Unknown {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(known) / float64(total)
}

func (c *Coverage) String() string {
	result := fmt.Sprintf("coverage:%.4f;null:%d;", c.Rate(), c.Nulls)
	for i, level := range c.Encoding.Levels() {
		result += fmt.Sprintf("%s=%d:%d;", level, i, c.Known[i])
	}
	for _, k := range sortedKeys(c.Unknown) {
		result += fmt.Sprintf("?%s:%d;", k, c.Unknown[k])
	}
	return result
}

// Profile summarizes the columns of a survey.
type Profile struct {
	Rows    int
	Columns []string
	Fields  map[string]Field
	// Coverage holds an entry for every profiled column with an encoding.
	Coverage map[string]*Coverage
}

// NewProfile starts an empty profile of columns. Columns encoder has an
// encoding for also get a Coverage.
func NewProfile(columns []string, encoder *features.Encoder) *Profile {
	p := &Profile{
		Columns:  append([]string(nil), columns...),
		Fields:   make(map[string]Field, len(columns)),
		Coverage: make(map[string]*Coverage),
	}
	for _, column := range columns {
		p.Fields[column] = &EmptyField{}
		if encoder == nil {
			continue
		}
		if e := encoder.Encoding(column); e != nil {
			p.Coverage[column] = newCoverage(e)
		}
	}
	return p
}

// Add folds one row into the profile.
func (p *Profile) Add(r *survey.RawRecord) error {
	for _, column := range p.Columns {
		v := r.Value(column)
		field, err := p.Fields[column].Add(v)
		if err != nil {
			return fmt.Errorf("column %q: %w", column, err)
		}
		p.Fields[column] = field

		if c, found := p.Coverage[column]; found {
			c.add(v)
		}
	}
	p.Rows++
	return nil
}

// Collect profiles every remaining row of reader. Calls progress, if not nil,
// after every row.
func Collect(ctx context.Context, reader *survey.Reader, encoder *features.Encoder, progress func(rows int)) (*Profile, error) {
	p := NewProfile(reader.Columns(), encoder)
	for record, err := range reader.Read() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err = p.Add(&record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", p.Rows+1, err)
		}
		if progress != nil {
			progress(p.Rows)
		}
	}
	return p, nil
}

// WriteTo writes one line per column, sorted by column name, followed by one
// line per encoded column.
func (p *Profile) WriteTo(w io.Writer) (int64, error) {
	columns := append([]string(nil), p.Columns...)
	sort.Strings(columns)

	var written int64
	n, err := fmt.Fprintf(w, "rows;%d\n", p.Rows)
	written += int64(n)
	if err != nil {
		return written, err
	}

	for _, column := range columns {
		n, err = fmt.Fprintf(w, "%s;%s\n", column, p.Fields[column])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	for _, column := range columns {
		c, found := p.Coverage[column]
		if !found {
			continue
		}
		n, err = fmt.Fprintf(w, "%s.encoding;%s\n", column, c)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
