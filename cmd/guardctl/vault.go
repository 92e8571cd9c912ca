package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/guard/core/config"
	"github.com/dmitrymomot/guard/integration/database/redis"
	"github.com/dmitrymomot/guard/pkg/securestorage"
)

const (
	defaultVaultFile = ".guard-vault.json"
	defaultKeyEnv    = "GUARD_STORAGE_KEY"
)

type vaultFlags struct {
	file     string
	keyEnv   string
	derive   string
	useRedis bool
}

// vault is an opened Storage plus the raw backend and its cleanup.
type vault struct {
	storage *securestorage.Storage
	store   securestorage.Store
	close   func() error
}

func (f vaultFlags) keySource() (securestorage.KeySource, error) {
	if f.derive == "" {
		return securestorage.EnvKey(f.keyEnv), nil
	}
	master := os.Getenv(f.keyEnv)
	if master == "" {
		return nil, fmt.Errorf("%w: environment variable %s is not set", securestorage.ErrEmptyKey, f.keyEnv)
	}
	return securestorage.DerivedKey{Master: []byte(master), Info: f.derive}, nil
}

func (c *cli) openVault(ctx context.Context, f vaultFlags) (*vault, error) {
	keys, err := f.keySource()
	if err != nil {
		return nil, err
	}

	if f.useRedis {
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := redis.NewStoreFromConfig(client, cfg)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &vault{
			storage: securestorage.New(store, keys, securestorage.WithLogger(c.logger)),
			store:   store,
			close:   client.Close,
		}, nil
	}

	store, err := securestorage.OpenFileStore(f.file)
	if err != nil {
		return nil, err
	}
	return &vault{
		storage: securestorage.New(store, keys, securestorage.WithLogger(c.logger)),
		store:   store,
		close:   func() error { return nil },
	}, nil
}

func (c *cli) vaultCmd() *cobra.Command {
	var f vaultFlags

	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Store obfuscated secrets in a local file or Redis",
		Long: `Manage an obfuscated key-value vault.

The obfuscation key is read from the environment variable named by --key-env.
With --derive the variable holds a master secret and the key is derived from
it with HKDF using the given context string.

Values are obfuscated, not encrypted: anyone holding the key can read them
and tampering is not detected.`,
	}

	cmd.PersistentFlags().StringVarP(&f.file, "file", "f", defaultVaultFile, "vault file")
	cmd.PersistentFlags().StringVar(&f.keyEnv, "key-env", defaultKeyEnv, "environment variable holding the key")
	cmd.PersistentFlags().StringVar(&f.derive, "derive", "", "derive the key from the master secret with this context")
	cmd.PersistentFlags().BoolVar(&f.useRedis, "redis", false, "use Redis configured by REDIS_* variables instead of a file")

	run := func(n cobra.PositionalArgs, fn func(cmd *cobra.Command, v *vault, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := n(cmd, args); err != nil {
				return err
			}
			v, err := c.openVault(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer func() { _ = v.close() }()
			return fn(cmd, v, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Store a value",
			RunE: run(cobra.ExactArgs(2), func(cmd *cobra.Command, v *vault, args []string) error {
				if !v.storage.SetItem(cmd.Context(), args[0], args[1]) {
					return errors.New("value was not stored, run with -v for details")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s stored %s\n", green("✓"), cyan(args[0]))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print a stored value",
			RunE: run(cobra.ExactArgs(1), func(cmd *cobra.Command, v *vault, args []string) error {
				value, ok := v.storage.GetItem(cmd.Context(), args[0])
				if !ok {
					return fmt.Errorf("%s: %w", args[0], securestorage.ErrNotFound)
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}),
		},
		&cobra.Command{
			Use:     "rm KEY",
			Aliases: []string{"remove"},
			Short:   "Remove a stored value",
			RunE: run(cobra.ExactArgs(1), func(cmd *cobra.Command, v *vault, args []string) error {
				v.storage.RemoveItem(cmd.Context(), args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s\n", green("✓"), cyan(args[0]))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every stored value",
			RunE: run(cobra.NoArgs, func(cmd *cobra.Command, v *vault, _ []string) error {
				v.storage.Clear(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "%s vault cleared\n", green("✓"))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List stored keys (file vaults only)",
			RunE: run(cobra.NoArgs, func(cmd *cobra.Command, v *vault, _ []string) error {
				fs, ok := v.store.(*securestorage.FileStore)
				if !ok {
					return errors.New("listing keys is only supported for file vaults")
				}
				keys := fs.Keys()
				slices.Sort(keys)
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "check",
			Short: "Report whether the vault backend accepts writes",
			RunE: run(cobra.NoArgs, func(cmd *cobra.Command, v *vault, _ []string) error {
				if !v.storage.IsAvailable(cmd.Context()) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s vault unavailable\n", red("✗"))
					return errors.New("vault unavailable")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s vault available\n", green("✓"))
				return nil
			}),
		},
	)
	return cmd
}
