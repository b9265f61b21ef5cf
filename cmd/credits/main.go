// Command credits inspects and adjusts a user's credit account.
//
//	credits -id <uuid>                      show the balance
//	credits -id <uuid> -grant 20 -reason x  add credits
//	credits -id <uuid> -unlimited=true      toggle unlimited generation
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"luxeprompt/internal/adapter/repo"
	"luxeprompt/internal/cache"
	"luxeprompt/internal/domain"
	"luxeprompt/internal/infra"
)

type options struct {
	userID    string
	grant     int
	reason    string
	unlimited *bool
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		exitWithError(err)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, dbURL)
	if err != nil {
		exitWithError(err)
	}
	defer pool.Close()

	logger := infra.NewLogger(os.Getenv("APP_ENV"), "credits")
	runner := infra.NewSQLRunner(pool, logger)

	var credits domain.CreditRepository = repo.NewCreditRepository(runner, envInt("DEFAULT_CREDITS", 5))
	// Writes through the cache wrapper so the API stops serving a stale balance.
	redisClient, err := infra.NewRedisClient(ctx, &infra.Config{RedisURL: os.Getenv("REDIS_URL")})
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, cached balances may be stale until ttl")
	} else if redisClient != nil {
		defer redisClient.Close()
		credits = cache.NewBalances(credits, cache.NewRedisStore(redisClient), 0, logger)
	}

	if err := run(ctx, credits, opts, os.Stdout); err != nil {
		exitWithError(err)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("credits", flag.ContinueOnError)
	var (
		opts      options
		unlimited string
	)
	fs.StringVar(&opts.userID, "id", "", "user ID (UUID)")
	fs.IntVar(&opts.grant, "grant", 0, "credits to add")
	fs.StringVar(&opts.reason, "reason", "admin_grant", "ledger reason recorded with a grant")
	fs.StringVar(&unlimited, "unlimited", "", "set unlimited generation (true or false)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.userID = strings.TrimSpace(opts.userID)
	if opts.userID == "" {
		return options{}, errors.New("-id is required")
	}
	if _, err := uuid.Parse(opts.userID); err != nil {
		return options{}, fmt.Errorf("-id %q is not a UUID", opts.userID)
	}
	if opts.grant < 0 {
		return options{}, errors.New("-grant must not be negative")
	}
	if unlimited != "" {
		v, err := strconv.ParseBool(unlimited)
		if err != nil {
			return options{}, fmt.Errorf("-unlimited: %w", err)
		}
		opts.unlimited = &v
	}
	return opts, nil
}

func run(ctx context.Context, credits domain.CreditRepository, opts options, out io.Writer) error {
	bal, err := credits.GetBalance(ctx, opts.userID)
	if err != nil {
		return fmt.Errorf("load balance: %w", err)
	}
	if opts.grant > 0 {
		if bal, err = credits.Grant(ctx, opts.userID, opts.grant, opts.reason); err != nil {
			return fmt.Errorf("grant credits: %w", err)
		}
		fmt.Fprintf(out, "granted %d credits (%s)\n", opts.grant, opts.reason)
	}
	if opts.unlimited != nil {
		if bal, err = credits.SetUnlimited(ctx, opts.userID, *opts.unlimited); err != nil {
			return fmt.Errorf("set unlimited: %w", err)
		}
	}
	printBalance(out, bal)
	return nil
}

func printBalance(out io.Writer, bal domain.CreditBalance) {
	fmt.Fprintf(out, "user=%s\n", bal.UserID)
	fmt.Fprintf(out, "credits=%d\n", bal.Credits)
	fmt.Fprintf(out, "unlimited=%t\n", bal.Unlimited)
	fmt.Fprintf(out, "lifetime_generations=%d\n", bal.LifetimeGenerations)
	fmt.Fprintf(out, "first_bonus_claimed=%t\n", bal.FirstBonusClaimed)
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
