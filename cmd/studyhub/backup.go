package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/backup"
)

var (
	backupFile   string
	backupFormat string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the whole vault",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of every section",
	Long: `Write a backup of every section. The default file is
study_hub_backup_<date>.json in the working directory; --file - writes to stdout.
--format yaml writes a readable dump that cannot be imported back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		snap, err := s.Backup.Export(cmd.Context())
		if err != nil {
			return err
		}
		data, err := backup.Encode(snap, backup.Format(backupFormat))
		if err != nil {
			return err
		}

		dest := backupFile
		if dest == "" {
			dest = s.Backup.FileName()
		}
		if dest == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dest)
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace every section with a backup",
	Long:  `Replace every section with a JSON backup. Use - to read the backup from stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if args[0] == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return s.Backup.Import(cmd.Context(), data)
		}
		return s.Backup.ImportFile(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
	backupExportCmd.Flags().StringVarP(&backupFile, "file", "f", "", "Output file (- for stdout)")
	backupExportCmd.Flags().StringVar(&backupFormat, "format", string(backup.FormatJSON), "Encoding: json or yaml")
}
