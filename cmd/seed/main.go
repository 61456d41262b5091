package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/sensei/internal/seed"
	"github.com/okian/sensei/pkg/logger"
)

// Default generation constants.
const (
	defaultUsers   = 200
	defaultSeed    = 42
	defaultTimeout = 2 * time.Minute
)

func main() {
	var (
		outDir  = flag.String("out", ".", "Output directory for data/ and artifacts")
		users   = flag.Int("users", defaultUsers, "Number of synthetic users")
		seedVal = flag.Int64("seed", defaultSeed, "Random seed for reproducible output")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := seed.Write(ctx, seed.Config{
		OutDir: *outDir,
		Users:  *users,
		Seed:   *seedVal,
	}); err != nil {
		os.Stderr.WriteString("seed generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
