package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rhai/internal/client"
	"rhai/internal/domain"
)

type generateOptions struct {
	req     domain.DocumentRequest
	docType string
	outDir  string
	html    string
	stdout  bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an HR document",
		Long: "Generate a French HR document through the relay. Supported types: " +
			strings.Join(documentTypeNames(), ", ") + ".",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.docType, "type", "t", "", "Document type")
	f.StringVar(&opts.req.CompanyName, "company", "", "Company name")
	f.StringVar(&opts.req.CompanyAddress, "address", "", "Company address")
	f.StringVar(&opts.req.EmployeeName, "employee", "", "Employee full name")
	f.StringVar(&opts.req.Position, "position", "", "Job title")
	f.StringVar(&opts.req.Salary, "salary", "", "Gross monthly salary in euros")
	f.StringVar(&opts.req.StartDate, "start-date", "", "Start date (YYYY-MM-DD, defaults to today)")
	f.StringVarP(&opts.outDir, "out-dir", "o", ".", "Directory the document is saved to")
	f.StringVar(&opts.html, "html", "", "Also write the rendered HTML panel to this file")
	f.BoolVar(&opts.stdout, "stdout", false, "Print the document instead of saving it")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	url, token := relaySettings(cmd)
	fc := client.New(url, client.WithBearerToken(token))

	req := opts.req
	req.DocumentType = domain.DocumentType(strings.ToLower(strings.TrimSpace(opts.docType)))

	view, err := fc.Submit(cmd.Context(), req)
	if err != nil {
		return err
	}

	if opts.html != "" {
		page, err := client.RenderHTML(view)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.html, []byte(page), 0o600); err != nil {
			return fmt.Errorf("failed to write HTML file: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if view.State == client.StateErrorDisplayed {
		fmt.Fprintf(cmd.ErrOrStderr(), "❌ %s\n", view.Error)
		if view.Suggestion != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), view.Suggestion)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), view.Hint)
		return errors.New("document generation failed")
	}

	if opts.stdout {
		fmt.Fprintln(out, view.Document)
		return nil
	}

	name, content, err := view.Download(time.Now())
	if err != nil {
		return err
	}
	path := filepath.Join(opts.outDir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	fmt.Fprintf(out, "📄 %s\n", view.Title)
	if view.Metadata != nil && view.Metadata.Fallback {
		fmt.Fprintln(out, "⚠️  Modèle de substitution : le service de rédaction était indisponible.")
	}
	fmt.Fprintf(out, "✅ Document enregistré : %s\n", path)
	return nil
}

func documentTypeNames() []string {
	names := make([]string, 0, len(domain.DocumentTypes))
	for _, dt := range domain.DocumentTypes {
		names = append(names, string(dt))
	}
	return names
}
