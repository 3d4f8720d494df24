package main

import (
	"fmt"
	"io"
	"time"

	"github.com/markkurossi/tabulate"
	"github.com/taurusgroup/mta/pkg/config"
	"github.com/taurusgroup/mta/pkg/party"
)

type report struct {
	rows     []*exchange
	failures int
	total    time.Duration
}

func newReport() *report {
	return &report{}
}

// ok reports whether e is complete and consistent.
func (r *report) ok(e *exchange, configs map[party.ID]*config.Config) bool {
	if e.Alpha == nil || e.Beta == nil || !e.PublicOK {
		return false
	}
	// only a demo with a trusted dealer knows both secrets
	expected := group.NewScalar().Set(configs[e.From].ECDSA).Mul(configs[e.To].ECDSA)
	return group.NewScalar().Set(e.Alpha).Add(e.Beta).Equal(expected)
}

// check verifies alpha + beta = a⋅b for every exchange, and records the results.
func (r *report) check(configs map[party.ID]*config.Config, results []*exchange) error {
	for _, e := range results {
		r.rows = append(r.rows, e)
		r.total += e.Duration
		e.Correct = r.ok(e, configs)
		if !e.Correct {
			r.failures++
		}
	}
	if r.failures > 0 {
		return fmt.Errorf("%d exchanges failed", r.failures)
	}
	return nil
}

func (r *report) print(w io.Writer) {
	if len(r.rows) == 0 {
		return
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Session").SetAlign(tabulate.ML)
	tab.Header("A").SetAlign(tabulate.ML)
	tab.Header("B").SetAlign(tabulate.ML)
	tab.Header("Time").SetAlign(tabulate.MR)
	tab.Header("Xfer").SetAlign(tabulate.MR)
	tab.Header("Public").SetAlign(tabulate.MC)
	tab.Header("α+β=a⋅b").SetAlign(tabulate.MC)

	for _, e := range r.rows {
		row := tab.Row()
		row.Column(e.Session)
		row.Column(string(e.From))
		row.Column(string(e.To))
		row.Column(e.Duration.Round(time.Millisecond).String())
		row.Column(fmt.Sprintf("%d B", e.Bytes))
		row.Column(mark(e.PublicOK))
		row.Column(mark(e.Correct))
	}

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column("")
	row.Column(r.total.Round(time.Millisecond).String()).SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column("")
	row.Column(fmt.Sprintf("%d/%d", len(r.rows)-r.failures, len(r.rows))).SetFormat(tabulate.FmtBold)

	tab.Print(w)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
