package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/log"
	"github.com/x-xyz/ensapi/base/metrics"
	bValidator "github.com/x-xyz/ensapi/base/validator"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
	"github.com/x-xyz/ensapi/service/ccip"
	"github.com/x-xyz/ensapi/service/chain"
	"github.com/x-xyz/ensapi/service/ens"
)

var rootCmd = &cobra.Command{
	Use:   "ensctl [flags] <name|address>...",
	Short: "Resolve ENS names and addresses",
	Long: `ensctl resolves every argument and prints one JSON line per input, in
input order. Hex addresses are reverse resolved, anything else is resolved
forward. Failures are reported per line and never stop the other inputs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.OutOrStdout(), args)
	},
	SilenceUsage: true,
}

var namehashCmd = &cobra.Command{
	Use:   "namehash <name>...",
	Short: "Print the node of every name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := ens.ParseNormalizePolicy(viper.GetString("normalize"))
		if err != nil {
			return err
		}
		for _, name := range args {
			normalized, err := policy.Apply(name)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, ensdomain.KindOf(err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, ens.Namehash(normalized).Hex())
		}
		return nil
	},
}

var ownerCmd = &cobra.Command{
	Use:   "owner <name>",
	Short: "Print the registry owner of a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		owner, err := engine.Owner(ctx.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), owner.Hex())
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("rpc", "", "rpc url, http(s), ws(s) or an ipc path")
	flags.String("registry", ens.DefaultRegistryAddress.Hex(), "ENS registry address")
	flags.String("mode", string(ensdomain.DefaultMode), "onchain or offchain")
	flags.String("normalize", string(ens.NormalizeNone), "none or uts46")
	flags.Duration("timeout", 0, "timeout of every rpc and gateway call, 0 for the default")
	flags.Int("retries", 1, "attempts of an rpc call that failed in transport")
	flags.Int("workers", 0, "concurrent resolutions, 0 for the default")
	flags.Bool("debug", false, "debug logs")

	flags.SortFlags = false

	rootCmd.AddCommand(namehashCmd, ownerCmd)
	cobra.OnInitialize(func() {
		if err := bindFlags(viper.GetViper(), flags); err != nil {
			panic(err)
		}
		log.SetDebug(viper.GetBool("debug"))
	})
}

// bindFlags lets ENSCTL_* environment variables stand in for unset flags
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix("ensctl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

// engineViper maps the flags onto the keys of the ens config tree
func engineViper(flags *viper.Viper) *viper.Viper {
	v := viper.New()
	v.Set("registry", flags.GetString("registry"))
	v.Set("normalize", flags.GetString("normalize"))
	v.Set("callTimeout", flags.GetDuration("timeout"))
	v.Set("batchWorkers", flags.GetInt("workers"))
	return v
}

func newEngine() (*ens.Engine, error) {
	cfg, err := ens.ConfigFromViper(engineViper(viper.GetViper()))
	if err != nil {
		return nil, err
	}
	client, _, err := chain.Dial(ctx.Background(), &chain.ClientCfg{
		RpcUrl: viper.GetString("rpc"),
		Retry: chain.RetryCfg{
			Attempts: viper.GetInt("retries"),
		},
	})
	if err != nil {
		return nil, err
	}
	gateway := ccip.NewClient(&ccip.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("timeout"),
	}, metrics.NewNop())
	return ens.NewEngine(client, gateway, metrics.NewNop(), cfg), nil
}

// toItems reverse resolves hex addresses and resolves anything else forward
func toItems(args []string) []ensdomain.Item {
	items := make([]ensdomain.Item, len(args))
	for i, arg := range args {
		items[i] = ensdomain.Item{Input: arg, Direction: ensdomain.DirectionForward}
		if strings.HasPrefix(arg, "0x") && bValidator.IsValidAddress(arg) {
			items[i].Direction = ensdomain.DirectionReverse
		}
	}
	return items
}

func writeOutputs(w io.Writer, outputs []ensdomain.ResolveOutput) error {
	enc := json.NewEncoder(w)
	for _, out := range outputs {
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}

func runResolve(w io.Writer, args []string) error {
	mode, err := ensdomain.ParseMode(viper.GetString("mode"))
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}
	outputs, err := engine.ResolveMany(ctx.Background(), toItems(args), mode)
	if err != nil {
		return err
	}
	return writeOutputs(w, outputs)
}

func main() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
