package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	"github.com/target/recruit-admin/internal/guard"
	"github.com/target/recruit-admin/internal/service"
)

func newApplicationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Review job applications",
	}
	cmd.AddCommand(
		newApplicationsListCmd(a),
		newApplicationsGetCmd(a),
		newApplicationsDocumentCmd(a),
		newApplicationsStatusCmd(a),
		newApplicationsDeleteCmd(a),
	)
	return cmd
}

func (a *app) applicationService(sess *cliSession) *service.ApplicationService {
	return service.NewApplicationService(service.ApplicationServiceOptions{API: sess.backend, Logger: a.logger})
}

func newApplicationsListCmd(a *app) *cobra.Command {
	var opts model.ApplicationListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				list, err := a.applicationService(sess).List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return a.render(list, func(w io.Writer) error {
					writeRow(w, "ID", "NUMBER", "NAME", "EMAIL", "STATUS", "SUBMITTED")
					for _, rec := range list.Applications {
						writeRow(w, rec.ID, orDash(rec.ApplicationNumber), rec.FullName, orDash(rec.Email),
							rec.Status.Label(), formatTime(rec.SubmittedAt))
					}
					pageFooter(w, list.Pagination)
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", model.DefaultPageLimit, "results per page")
	cmd.Flags().StringVar(&opts.Status, "status", model.FilterAll, "filter by status ("+statusList()+")")
	cmd.Flags().StringVar(&opts.Search, "search", "", "match name, email or application number")
	return cmd
}

func newApplicationsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				rec, err := a.applicationService(sess).Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.render(rec, func(w io.Writer) error {
					fmt.Fprintln(w, headingStyle.Render(rec.FullName))
					writeRow(w, "ID:", rec.ID)
					writeRow(w, "Number:", orDash(rec.ApplicationNumber))
					writeRow(w, "Status:", rec.Status.Label())
					writeRow(w, "Email:", orDash(rec.Email))
					writeRow(w, "Phone:", orDash(rec.Phone))
					writeRow(w, "Nationality:", orDash(rec.Nationality))
					writeRow(w, "Submitted:", formatTime(rec.SubmittedAt))
					writeRow(w, "Updated:", formatTime(rec.UpdatedAt))
					for _, name := range slices.Sorted(maps.Keys(rec.Documents)) {
						doc := rec.Documents[name]
						writeRow(w, "Document:", fmt.Sprintf("%s  %s  %s", name, orDash(doc.FileName), orDash(doc.SizeLabel())))
					}
					for _, n := range rec.AdminNotes {
						ts := n.Timestamp
						writeRow(w, "Note:", fmt.Sprintf("%s  %s  %s", formatTime(&ts), orDash(n.AdminUsername), n.Note))
					}
					return nil
				})
			})
		},
	}
}

type savedDocument struct {
	Name        string `json:"name"                  yaml:"name"`
	Path        string `json:"path,omitempty"        yaml:"path,omitempty"`
	URL         string `json:"url,omitempty"         yaml:"url,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Bytes       int    `json:"bytes"                 yaml:"bytes"`
}

func newApplicationsDocumentCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "document <id> <name>",
		Short: "Save an application document to disk",
		Long:  "Save an inline application document to disk. Documents stored as links print their URL instead.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				doc, err := a.applicationService(sess).Document(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				saved := savedDocument{Name: args[1]}
				if !doc.HasData() {
					saved.URL = doc.URL
					return a.render(saved, func(w io.Writer) error {
						writeRow(w, "URL:", doc.URL)
						return nil
					})
				}
				contentType, data, err := doc.Content()
				if err != nil {
					return err
				}
				saved.ContentType, saved.Bytes = contentType, len(data)
				saved.Path = out
				if saved.Path == "" {
					saved.Path = filepath.Base(orDefault(doc.FileName, args[1]))
				}
				if err := os.WriteFile(saved.Path, data, 0o600); err != nil {
					return fmt.Errorf("save document: %w", err)
				}
				if err := a.render(saved, func(io.Writer) error { return nil }); err != nil {
					return err
				}
				a.done(fmt.Sprintf("Saved %s (%d bytes)", saved.Path, saved.Bytes))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "f", "", "destination file (default: the document's file name)")
	return cmd
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func newApplicationsStatusCmd(a *app) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an application's status",
		Long:  "Change an application's status. Valid statuses: " + statusList() + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				req := model.UpdateApplicationStatusRequest{Status: model.ApplicationStatus(args[1]), Note: note}
				if err := a.applicationService(sess).UpdateStatus(cmd.Context(), args[0], req); err != nil {
					return err
				}
				a.done(fmt.Sprintf("Application status updated to %s", req.Status.Label()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "note recorded with the status change")
	return cmd
}

func newApplicationsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				if err := a.applicationService(sess).Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				a.done("Application deleted successfully")
				return nil
			})
		},
	}
}

func statusList() string {
	statuses := model.ApplicationStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
