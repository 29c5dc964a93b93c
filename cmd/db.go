package cmd

import (
	"fmt"
	"os"

	"frontdesk/configs"
	"frontdesk/repository"
	"frontdesk/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB connects and migrates; every local command needs both.
func openDB() (*gorm.DB, error) {
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := configs.SeedCounters(db); err != nil {
		return nil, fmt.Errorf("seed counters: %w", err)
	}
	return db, nil
}

func localTables() (*services.TableService, func(), error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	pub, closePub := openPublisher()
	svc := services.NewTableService(db, repository.NewTableRepository(db), repository.NewGuestRepository(db), pub)
	return svc, closePub, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed the admin account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := configs.SeedAdmin(db, cfg); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("database ready")
		return nil
	},
}

var seedTablesCmd = &cobra.Command{
	Use:   "seed-tables",
	Short: `Create "Table <n>" for every n in --from..--to`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")
		capacity, _ := cmd.Flags().GetInt("capacity")

		svc, done, err := localTables()
		if err != nil {
			return err
		}
		defer done()
		list, err := svc.SeedRange(cmd.Context(), &services.SeedTablesIn{From: from, To: to, Capacity: capacity})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d tables\n", len(list))
		return nil
	},
}

var importTablesCmd = &cobra.Command{
	Use:   "import-tables <file.csv>",
	Short: "Import tables from a CSV with name and capacity columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		svc, done, err := localTables()
		if err != nil {
			return err
		}
		defer done()
		list, err := svc.Import(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d tables\n", len(list))
		return nil
	},
}

func init() {
	seedTablesCmd.Flags().Int("from", 1, "first table number")
	seedTablesCmd.Flags().Int("to", 10, "last table number")
	seedTablesCmd.Flags().Int("capacity", 4, "seats per table")
	rootCmd.AddCommand(migrateCmd, seedTablesCmd, importTablesCmd)
}
