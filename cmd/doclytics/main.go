package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HamiltonMussi/doclytics-go/internal/bootstrap"
	"github.com/HamiltonMussi/doclytics-go/internal/config"
	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/infrastructure/remote/doclytics"
	"github.com/HamiltonMussi/doclytics-go/internal/observability/logging"
)

const usageText = `usage: doclytics <command> [flags]

commands:
  login     -email -password        sign in and store the session
  register  -name -email -password  create an account and sign in
  logout                            sign out and drop local caches
  whoami                            show the authenticated profile
  profile   -name                   update the profile name
  list                              list documents
  upload    <file>                  upload a jpg/jpeg/png/pdf (max 10MB)
  watch     <document-id>           poll processing status until terminal
  ask       <document-id> <text>    ask a question about a document
  history   <document-id>           show the Q&A history
  clear     <document-id>           clear the Q&A history
  download  <document-id> [-dir]    save the annotated text export
  delete    <document-id>           delete a document
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewJSONLoggerTo(os.Stderr, "doclytics-cli", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, "doclytics-cli", logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "doclytics: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	if err := run(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "doclytics: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, app, args)
	case "register":
		return runRegister(ctx, app, args)
	case "logout":
		return app.SessionUC.SignOut()
	case "whoami":
		return runWhoami(ctx, app)
	case "profile":
		return runProfile(ctx, app, args)
	case "list":
		return runList(ctx, app)
	case "upload":
		return runUpload(ctx, app, args)
	case "watch":
		return runWatch(ctx, app, args)
	case "ask":
		return runAsk(ctx, app, args)
	case "history":
		return runHistory(ctx, app, args)
	case "clear":
		return runClear(ctx, app, args)
	case "download":
		return runDownload(ctx, app, args)
	case "delete":
		return runDelete(ctx, app, args)
	default:
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runLogin(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	session, err := app.SessionUC.SignIn(ctx, *email, *password)
	if err != nil {
		return userError(err, "Erro ao entrar")
	}
	fmt.Printf("signed in as %s <%s>\n", session.User.Name, session.User.Email)
	return nil
}

func runRegister(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	session, err := app.SessionUC.SignUp(ctx, *name, *email, *password)
	if err != nil {
		return userError(err, "Erro ao criar conta")
	}
	fmt.Printf("account created, signed in as %s <%s>\n", session.User.Name, session.User.Email)
	return nil
}

func runWhoami(ctx context.Context, app *bootstrap.App) error {
	user, err := app.SessionUC.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}

func runProfile(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	_ = fs.Parse(args)

	user, err := app.SessionUC.UpdateProfile(ctx, *name)
	if err != nil {
		return userError(err, "Erro ao atualizar perfil")
	}
	fmt.Printf("profile updated: %s\n", user.Name)
	return nil
}

func runList(ctx context.Context, app *bootstrap.App) error {
	docs, err := app.Browser.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("no documents")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("%s  %-10s  %s\n", doc.ID, doc.OcrStatus, doc.FileName)
	}
	return nil
}

func runUpload(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("upload: missing file path")
	}
	doc, err := app.Uploader.Upload(ctx, args[0])
	if err != nil {
		return userError(err, "Erro ao fazer upload")
	}
	fmt.Printf("uploaded %s (%s), status %s\n", doc.FileName, doc.ID, doc.OcrStatus)
	return watchCached(ctx, app, doc.ID)
}

func runWatch(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("watch: missing document id")
	}
	if _, err := app.Browser.Refresh(ctx); err != nil {
		return err
	}
	return watchCached(ctx, app, args[0])
}

// watchCached selects id (arming the poller when the status is non-terminal)
// and prints status transitions until the document settles or polling stops.
func watchCached(ctx context.Context, app *bootstrap.App, id string) error {
	doc, err := app.Browser.Select(id)
	if err != nil {
		return err
	}
	if doc.OcrStatus.Terminal() {
		printFinal(doc)
		return nil
	}

	updates := make(chan struct{}, 1)
	unsubscribe := app.Documents.Subscribe(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()
	defer app.Poller.Stop()

	last := doc.OcrStatus
	fmt.Printf("status: %s\n", last)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-updates:
		case <-time.After(10 * time.Second):
		}

		current, ok := app.Documents.Get(id)
		if !ok {
			return fmt.Errorf("document %s disappeared from cache", id)
		}
		if current.OcrStatus != last {
			last = current.OcrStatus
			fmt.Printf("status: %s\n", last)
		}
		if current.OcrStatus.Terminal() {
			printFinal(current)
			return nil
		}
		if app.Poller.ActiveDocument() == "" {
			fmt.Printf("polling stopped; last known status: %s\n", current.OcrStatus)
			return nil
		}
	}
}

func printFinal(doc domain.Document) {
	if doc.OcrStatus == domain.StatusCompleted && doc.Summary != "" {
		fmt.Printf("completed: %s\nsummary: %s\n", doc.FileName, doc.Summary)
		return
	}
	fmt.Printf("%s: %s\n", strings.ToLower(string(doc.OcrStatus)), doc.FileName)
}

func runAsk(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("ask: expected <document-id> <question>")
	}
	interaction, err := app.InteractionsUC.Ask(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return userError(err, "Erro ao fazer pergunta")
	}
	fmt.Printf("Q: %s\nA: %s\n", interaction.Question, interaction.Answer)
	return nil
}

func runHistory(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("history: missing document id")
	}
	interactions, err := app.InteractionsUC.History(ctx, args[0])
	if err != nil {
		return err
	}
	if len(interactions) == 0 {
		fmt.Println("no interactions")
		return nil
	}
	for _, interaction := range interactions {
		fmt.Printf("Q: %s\nA: %s\n\n", interaction.Question, interaction.Answer)
	}
	return nil
}

func runClear(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("clear: missing document id")
	}
	if err := app.InteractionsUC.Clear(ctx, args[0]); err != nil {
		return userError(err, "Erro ao limpar conversas")
	}
	fmt.Println("history cleared")
	return nil
}

func runDownload(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("download: missing document id")
	}
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	dir := fs.String("dir", app.Config.DownloadDir, "destination directory")
	_ = fs.Parse(args[1:])

	if _, err := app.Browser.Refresh(ctx); err != nil {
		return err
	}
	path, err := app.Browser.Download(ctx, args[0], *dir)
	if err != nil {
		return userError(err, "Erro ao baixar documento")
	}
	fmt.Printf("saved %s\n", path)
	return nil
}

func runDelete(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("delete: missing document id")
	}
	if err := app.Browser.Delete(ctx, args[0]); err != nil {
		return userError(err, "Erro ao apagar documento")
	}
	fmt.Println("document deleted")
	return nil
}

// userError keeps the service-provided message visible while preserving the
// underlying error for logs.
func userError(err error, fallback string) error {
	return fmt.Errorf("%s: %w", doclytics.ServiceMessage(err, fallback), err)
}
