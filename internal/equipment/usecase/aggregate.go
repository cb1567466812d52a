package usecase

import "github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"

// Sums are the running totals of the numeric columns.
type Sums struct {
	Flowrate    float64
	Pressure    float64
	Temperature float64
}

// Aggregation is the finalized result of one pass over a session's rows.
type Aggregation struct {
	Count        int
	Sums         Sums
	Averages     entity.Averages
	Distribution entity.Distribution
	Records      []entity.Record
}

// accumulator folds rows into an Aggregation. It lives inside a single call
// and is dropped once finalize has run.
type accumulator struct {
	count        int
	sums         Sums
	records      []entity.Record
	distribution entity.Distribution
	typeIndex    map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{typeIndex: make(map[string]int)}
}

func (a *accumulator) addRow(row Row) {
	a.add(entity.Record{
		Position:    a.count,
		Name:        row.Name,
		Type:        row.Type,
		Flowrate:    row.Flowrate,
		Pressure:    row.Pressure,
		Temperature: row.Temperature,
	})
}

func (a *accumulator) add(rec entity.Record) {
	a.count++
	a.sums.Flowrate += rec.Flowrate
	a.sums.Pressure += rec.Pressure
	a.sums.Temperature += rec.Temperature
	a.records = append(a.records, rec)

	if i, ok := a.typeIndex[rec.Type]; ok {
		a.distribution[i].Count++
		return
	}
	a.typeIndex[rec.Type] = len(a.distribution)
	a.distribution = append(a.distribution, entity.TypeCount{Type: rec.Type, Count: 1})
}

// finalize computes the averages. With no rows every average is zero.
func (a *accumulator) finalize() Aggregation {
	var avg entity.Averages
	if a.count > 0 {
		n := float64(a.count)
		avg = entity.Averages{
			Flowrate:    a.sums.Flowrate / n,
			Pressure:    a.sums.Pressure / n,
			Temperature: a.sums.Temperature / n,
		}
	}

	return Aggregation{
		Count:        a.count,
		Sums:         a.sums,
		Averages:     avg,
		Distribution: a.distribution,
		Records:      a.records,
	}
}

// accumulate parses content and folds its rows in one pass.
func accumulate(content []byte, encoding string) (Aggregation, error) {
	acc := newAccumulator()
	if _, err := parseCSV(content, encoding, acc.addRow); err != nil {
		return Aggregation{}, err
	}
	return acc.finalize(), nil
}

// aggregateRecords rebuilds the aggregation of already stored records.
func aggregateRecords(records []entity.Record) Aggregation {
	acc := newAccumulator()
	for _, rec := range records {
		acc.add(rec)
	}
	return acc.finalize()
}
