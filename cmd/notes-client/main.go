// Command notes-client browses, downloads and uploads shared notes through the API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"github.com/weiwangfds/collegenotes/internal/catalog"
	"github.com/weiwangfds/collegenotes/internal/client"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		var clientErr *client.Error
		if errors.As(err, &clientErr) {
			fmt.Fprintln(os.Stderr, clientErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "notes-client",
		Usage: "browse and share college notes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "API base URL",
				EnvVars: []string{"NOTES_SERVER"},
				Value:   "http://localhost:5000",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level for request failures",
				Value: "error",
			},
		},
		Before: func(c *cli.Context) error {
			return logger.Init(&logger.Config{
				Level:  c.String("log-level"),
				Format: "text",
				Output: "console",
			})
		},
		Commands: []*cli.Command{
			{
				Name:   "resources",
				Usage:  "list notes and question papers grouped by folder",
				Action: resourcesAction,
			},
			{
				Name:      "download",
				Usage:     "download a file into a local directory",
				ArgsUsage: "URL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "target directory", Value: "./downloads"},
				},
				Action: downloadAction,
			},
			{
				Name:  "upload",
				Usage: "upload a file with its attributes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "local file", Required: true},
					&cli.StringFlag{Name: "title", Usage: "title"},
					&cli.StringFlag{Name: "year", Usage: "year", Required: true},
					&cli.StringFlag{Name: "type", Usage: "document type, e.g. notes", Required: true},
					&cli.StringFlag{Name: "subject", Usage: "subject", Required: true},
					&cli.StringFlag{Name: "course", Usage: "course", Required: true},
					&cli.StringFlag{Name: "folder", Usage: "object store folder, e.g. Notes/2023", Required: true},
				},
				Action: uploadAction,
			},
			{
				Name:   "notes",
				Usage:  "list metadata records, newest first",
				Action: notesAction,
			},
		},
	}
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"))
}

func resourcesAction(c *cli.Context) error {
	cat, err := apiClient(c).FetchResources(c.Context)
	if err != nil {
		return err
	}
	printCatalog(c.App.Writer, cat)
	return nil
}

func printCatalog(w io.Writer, cat *catalog.Catalog) {
	sections := []struct {
		title  string
		groups []catalog.Group
	}{
		{"Notes", cat.Notes},
		{"Questions", cat.Questions},
	}
	for _, section := range sections {
		fmt.Fprintf(w, "== %s ==\n", section.title)
		if len(section.groups) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, g := range section.groups {
			fmt.Fprintf(w, "%s\n", g.Folder)
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, e := range g.Files {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.DisplayName, e.Extension, e.URL)
			}
			tw.Flush()
		}
	}
}

func downloadAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("download needs exactly one URL", 2)
	}
	dest, err := apiClient(c).Download(c.Context, c.Args().First(), c.String("dir"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "saved %s\n", dest)
	return nil
}

func uploadAction(c *cli.Context) error {
	note, err := apiClient(c).Upload(c.Context, client.UploadRequest{
		FilePath: c.String("file"),
		Title:    c.String("title"),
		Year:     c.String("year"),
		Type:     c.String("type"),
		Subject:  c.String("subject"),
		Course:   c.String("course"),
		Folder:   c.String("folder"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "uploaded #%d %s\n%s\n", note.ID, note.Title, note.FileURL)
	return nil
}

func notesAction(c *cli.Context) error {
	notes, err := apiClient(c).ListNotes(c.Context)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tSUBJECT\tCOURSE\tTYPE\tFOLDER\tCREATED")
	for _, n := range notes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			n.ID, n.Title, n.Year, n.Subject, n.Course, n.Type, n.Folder, n.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
