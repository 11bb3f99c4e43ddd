package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub/pkg/core"
)

var (
	pdfName string
	pdfDest string
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Manage stored PDFs",
}

var pdfAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Store a PDF in the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		name := pdfName
		if name == "" {
			name = filepath.Base(args[0])
		}

		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		pdf, err := s.Hub.AddPDF(cmd.Context(), name, data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pdf.ID)
		return nil
	},
}

// pdfEntry is the listing view of a PDF, without its payload.
type pdfEntry struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Size int    `json:"size" yaml:"size"`
}

var pdfListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored PDFs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var entries []pdfEntry
		for _, p := range s.Hub.PDFs() {
			entries = append(entries, pdfEntry{ID: p.ID, Name: p.Name, Size: payloadSize(p.Data)})
		}
		return render(cmd, entries, func(w io.Writer) error {
			for _, e := range entries {
				fmt.Fprintf(w, "%s  %s  %s\n", shortID(e.ID), e.Name, humanize.IBytes(uint64(e.Size)))
			}
			return nil
		})
	},
}

var pdfGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Write a stored PDF to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyPDFs, args[0])
		if err != nil {
			return err
		}
		data, err := s.Hub.PDFData(id)
		if err != nil {
			return err
		}

		dest := pdfDest
		if dest == "" {
			for _, p := range s.Hub.PDFs() {
				if p.ID == id {
					dest = filepath.Base(p.Name)
				}
			}
		}
		if dest == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s)\n", dest, humanize.IBytes(uint64(len(data))))
		return nil
	},
}

var pdfDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Hub.Resolve(core.KeyPDFs, args[0])
		if err != nil {
			return err
		}
		return s.Hub.DeletePDF(cmd.Context(), id)
	},
}

// payloadSize estimates the decoded size of a base64 data URL.
func payloadSize(dataURL string) int {
	_, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return 0
	}
	return base64.StdEncoding.DecodedLen(len(payload))
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.AddCommand(pdfAddCmd, pdfListCmd, pdfGetCmd, pdfDeleteCmd)
	pdfAddCmd.Flags().StringVar(&pdfName, "name", "", "Display name (default: file name)")
	pdfGetCmd.Flags().StringVar(&pdfDest, "dest", "", "Output file (default: the stored name, - for stdout)")
}
