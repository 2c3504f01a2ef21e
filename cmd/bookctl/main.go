// Command bookctl is a small command line front-end to the books
// catalog api. It drives the same session state a graphical client
// would: load the list, edit a draft, submit it, delete a record.
//
// Usage:
//
//	bookctl [-url http://localhost:8080] [-token secret] list
//	bookctl [-url ...] add -title "Dune" -author "Herbert" [-desc "..."]
//	bookctl [-url ...] delete <id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jeamon/books-catalog/pkg/bookclient"
)

func main() {
	baseURL := flag.String("url", envOr("BCAT_API_URL", "http://localhost:8080"), "base url of the books catalog api")
	token := flag.String("token", os.Getenv("BCAT_API_TOKEN"), "bearer token attached to each request")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	provider := func() (string, bool) {
		return *token, len(*token) != 0
	}
	client, err := bookclient.New(*baseURL, bookclient.WithTokenProvider(provider))
	if err != nil {
		fmt.Fprintln(os.Stderr, "bookctl:", err)
		os.Exit(1)
	}
	session := bookclient.NewSession(client)
	ctx := context.Background()

	switch flag.Arg(0) {
	case "list":
		err = runList(ctx, session)
	case "add":
		err = runAdd(ctx, session, flag.Args()[1:])
	case "delete":
		if flag.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "bookctl: delete requires exactly one book id")
			os.Exit(2)
		}
		err = runDelete(ctx, session, flag.Arg(1))
	default:
		fmt.Fprintf(os.Stderr, "bookctl: unknown command %q\n", flag.Arg(0))
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "bookctl:", session.State().ErrorMessage)
		os.Exit(1)
	}
}

func runList(ctx context.Context, session *bookclient.Session) error {
	if err := session.Load(ctx); err != nil {
		return err
	}
	books := session.State().Books
	if len(books) == 0 {
		fmt.Println("the catalog is empty.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tDESCRIPTION")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Description)
	}
	return w.Flush()
}

func runAdd(ctx context.Context, session *bookclient.Session, args []string) error {
	addFlags := flag.NewFlagSet("add", flag.ExitOnError)
	title := addFlags.String("title", "", "title of the book (required)")
	author := addFlags.String("author", "", "author of the book (required)")
	desc := addFlags.String("desc", "", "free form description")
	if err := addFlags.Parse(args); err != nil {
		return err
	}

	session.SetDraftField(bookclient.DraftTitle, *title)
	session.SetDraftField(bookclient.DraftAuthor, *author)
	session.SetDraftField(bookclient.DraftDescription, *desc)

	if err := session.Submit(ctx); err != nil {
		return err
	}
	books := session.State().Books
	created := books[len(books)-1]
	fmt.Printf("created %s (%s by %s)\n", created.ID, created.Title, created.Author)
	return nil
}

func runDelete(ctx context.Context, session *bookclient.Session, id string) error {
	if err := session.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
