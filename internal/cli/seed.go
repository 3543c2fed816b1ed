package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/config"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/seed"
)

var (
	seedFile  string
	seedReset bool
)

// seedCmd writes straight to the configured store (DB_TYPE, DB_URL, ...), not through the API.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users and assets into the configured database",
	Long: `Load demo users and assets into the database selected by DB_TYPE and DB_URL
(or MONGO_URL). Without --file the built-in demo set is used. Users that already
exist are reused and assets already present for the same owner, name and url
are skipped; --reset removes every existing asset first.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file (default: built-in demo data)")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "delete all existing assets before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := loadSeed(seedFile)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	store, err := repositories.Open(ctx, config.Envs)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	res, err := seed.Apply(ctx, store, data, seedReset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.AssetsRemoved > 0 {
		fmt.Fprintln(out, formatInfo(fmt.Sprintf("Removed %d existing assets", res.AssetsRemoved)))
	}
	fmt.Fprintln(out, formatSuccess(fmt.Sprintf("Seeded %d assets", res.AssetsCreated)))
	if res.AssetsSkipped > 0 {
		fmt.Fprintln(out, formatMuted(fmt.Sprintf("%d assets already present", res.AssetsSkipped)))
	}
	fmt.Fprintln(out, formatMuted(fmt.Sprintf("%d users created, %d reused", res.UsersCreated, res.UsersExisting)))
	return nil
}

func loadSeed(path string) (seed.File, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return seed.File{}, err
	}
	defer f.Close()
	return seed.Load(f)
}
