package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/GiGurra/boa/pkg/boa"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/safespender/safespender-backend/internal/report"
	"github.com/safespender/safespender-backend/internal/snapshotfile"
	"github.com/safespender/safespender-backend/internal/util"
)

type Params struct {
	Snapshot string `descr:"Path to the YAML snapshot" positional:"true"`
	Today    string `descr:"Evaluate as of this date (YYYY-MM-DD), defaults to the local date" optional:"true"`
	From     string `descr:"First calendar day (YYYY-MM-DD), defaults to the start of today's month" optional:"true"`
	To       string `descr:"Last calendar day (YYYY-MM-DD), defaults to the end of today's month" optional:"true"`
	Xlsx     string `descr:"Also write the calendar and summary to this .xlsx file" optional:"true"`
	Policy   string `descr:"Savings frequency policy" alts:"approximate,monthly-only" strict:"true" default:"approximate"`
	Verbose  bool   `descr:"Log debug output" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("safespender").
		WithShort("Show how much is safe to spend").
		WithLong("Loads a snapshot of transactions, recurring expenses, savings goals, salary schedule and profile, then prints the free-to-spend summary and the calendar for a date window.").
		WithRunFunc(func(params *Params) {
			setupLogging(params.Verbose)
			if err := run(params, os.Stdout, time.Now()); err != nil {
				log.Error().Err(err).Msg("safespender failed")
				os.Exit(1)
			}
		}).
		Run()
}

func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// window resolves the evaluation date and calendar range from the flags
func window(params *Params, now time.Time) (today, from, to civil.Date, err error) {
	today = domain.Today(now, time.Local)
	if params.Today != "" {
		if today, err = domain.ParseDate(params.Today); err != nil {
			return today, from, to, fmt.Errorf("--today: %w", err)
		}
	}

	from, to = util.MonthStart(today), util.MonthEnd(today)
	if params.From != "" {
		if from, err = domain.ParseDate(params.From); err != nil {
			return today, from, to, fmt.Errorf("--from: %w", err)
		}
	}
	if params.To != "" {
		if to, err = domain.ParseDate(params.To); err != nil {
			return today, from, to, fmt.Errorf("--to: %w", err)
		}
	}
	return today, from, to, nil
}

func run(params *Params, out io.Writer, now time.Time) error {
	opts := projection.Options{SavingsPolicy: projection.SavingsPolicy(params.Policy)}
	if !opts.SavingsPolicy.IsValid() {
		return fmt.Errorf("unknown savings policy %q", params.Policy)
	}

	today, from, to, err := window(params, now)
	if err != nil {
		return err
	}

	snapshot, err := snapshotfile.Load(params.Snapshot)
	if err != nil {
		return err
	}
	log.Debug().
		Int("transactions", len(snapshot.Transactions)).
		Int("expenses", len(snapshot.Expenses)).
		Int("goals", len(snapshot.Goals)).
		Bool("salary", snapshot.Salary != nil).
		Msg("Snapshot loaded")

	currency := snapshot.Profile.BaseCurrency
	summary := projection.Summarize(snapshot, today, opts)
	report.PrintSummaryTable(out, summary, currency)
	fmt.Fprintln(out)

	cal, err := projection.NewCalendar(snapshot, from, to, opts)
	if err != nil {
		return fmt.Errorf("building calendar %s..%s: %w", from, to, err)
	}
	report.PrintCalendarTable(out, cal, currency)

	if params.Xlsx != "" {
		if err := report.SaveCalendarWorkbook(params.Xlsx, cal, &summary); err != nil {
			return err
		}
		log.Info().Str("path", params.Xlsx).Msg("Workbook written")
	}
	return nil
}
