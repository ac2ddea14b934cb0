package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/ledger"
)

// Record is one name,amount,category line. Missing trailing fields are
// empty and extra fields are dropped.
type Record struct {
	Line     int
	Name     string
	Amount   string
	Category string
}

func (r Record) String() string {
	return strings.Join([]string{r.Name, r.Amount, r.Category}, ",")
}

// ReadRecords calls fn for each record in r. A leading header row and
// lines starting with # are skipped. Reading stops at the first error.
func ReadRecords(r io.Reader, fn func(Record) error) error {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first := true
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read csv: %w", err)
		}

		if first {
			first = false
			if len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "name") {
				continue
			}
		}

		padded := make([]string, 3)
		copy(padded, fields)
		line, _ := reader.FieldPos(0)

		if err := fn(Record{Line: line, Name: padded[0], Amount: padded[1], Category: padded[2]}); err != nil {
			return err
		}
	}
}

// LoadCSV feeds every record into l. Records the ledger refuses come back
// as rejections; only a malformed stream is an error.
func LoadCSV(r io.Reader, l *ledger.Ledger) ([]Rejection, error) {
	var rejections []Rejection
	err := ReadRecords(r, func(rec Record) error {
		if _, err := l.AddExpense(rec.Name, rec.Amount, rec.Category); err != nil {
			rejections = append(rejections, NewRejection(rec, err))
		}
		return nil
	})
	return rejections, err
}

func NewRejection(rec Record, err error) Rejection {
	rej := Rejection{Line: rec.Line, Input: rec.String(), Code: string(internal.ErrCodeInternal), Message: err.Error()}
	if appErr, ok := internal.IsAppError(err); ok {
		rej.Code = string(appErr.Code)
		rej.Message = appErr.GetDetailedMessage()
	}
	return rej
}
