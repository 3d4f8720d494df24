package main

import (
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/taurusgroup/mta/internal/test"
	"github.com/taurusgroup/mta/pkg/config"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/math/sample"
	"github.com/taurusgroup/mta/pkg/party"
	"github.com/taurusgroup/mta/pkg/pool"
)

const usage = `usage: example <command> [flags]

commands:
  keygen   generate a config for each party and write them to a directory
  run      run pairwise MtA exchanges between all parties
`

var group = curve.Secp256k1{}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "keygen":
		err = keygen(os.Args[2:])
	case "run":
		err = run(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg(os.Args[1] + " failed")
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// randomness returns crypto/rand, or a deterministic stream if seed is set.
func randomness(seed string) io.Reader {
	if seed == "" {
		return rand.Reader
	}
	log.Warn().Msg("using a seeded random source, keys are not secret")
	return pool.NewLockedReader(sample.NewSeededReader([]byte(seed)))
}

func keygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	n := fs.Int("n", 3, "number of parties")
	dir := fs.String("dir", "configs", "output directory")
	seed := fs.String("seed", "", "seed for a deterministic run")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogger(*verbose)
	if *n < 2 {
		return errors.New("at least 2 parties are needed")
	}

	pl := pool.NewPool(0)
	defer pl.TearDown()

	ids := test.PartyIDs(*n)
	log.Info().Int("parties", *n).Msg("generating Paillier keys")
	configs, err := config.Generate(group, ids, randomness(*seed), pl)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(*dir, 0o700); err != nil {
		return err
	}
	for _, id := range ids {
		data, err := configs[id].MarshalBinary()
		if err != nil {
			return fmt.Errorf("party %s: %w", id, err)
		}
		path := filepath.Join(*dir, string(id)+".cbor")
		if err = os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
		log.Info().Str("party", string(id)).Str("path", path).Msg("config written")
	}
	return nil
}

func loadConfigs(dir string) (map[party.ID]*config.Config, party.IDSlice, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.cbor"))
	if err != nil {
		return nil, nil, err
	}
	if len(paths) < 2 {
		return nil, nil, fmt.Errorf("%s: need at least 2 configs, found %d", dir, len(paths))
	}
	configs := make(map[party.ID]*config.Config, len(paths))
	ids := make([]party.ID, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		c := config.EmptyConfig(group)
		if err = c.UnmarshalBinary(data); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		configs[c.ID] = c
		ids = append(ids, c.ID)
	}
	return configs, party.NewIDSlice(ids), nil
}

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dir := fs.String("dir", "", "directory written by keygen; fixed test keys are used if empty")
	n := fs.Int("n", 3, "number of parties when using fixed test keys (at most 3)")
	sessions := fs.Int("sessions", 1, "number of times every pair runs an exchange")
	seed := fs.String("seed", "", "seed for the configs built from fixed test keys")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogger(*verbose)

	var (
		configs map[party.ID]*config.Config
		ids     party.IDSlice
		err     error
	)
	if *dir == "" {
		if *n < 2 || *n > 3 {
			return errors.New("-n must be 2 or 3 with fixed test keys")
		}
		configs, ids = test.GenerateConfig(group, *n, randomness(*seed))
	} else if configs, ids, err = loadConfigs(*dir); err != nil {
		return err
	}

	pl := pool.NewPool(0)
	defer pl.TearDown()

	report := newReport()
	for s := 0; s < *sessions; s++ {
		sessionID := fmt.Sprintf("session-%d", s)
		results, err := runSession(pl, configs, ids, sessionID)
		if err != nil {
			return err
		}
		if err = report.check(configs, results); err != nil {
			report.print(os.Stdout)
			return err
		}
	}
	report.print(os.Stdout)
	return nil
}
