package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"bookcatalog/internal/account"
	"bookcatalog/internal/apiclient"
	"bookcatalog/internal/authsession"

	"github.com/sirupsen/logrus"
)

const usage = `usage: catalogctl <command> [arguments]

commands:
  login -email E [-password P]
  register -email E [-password P]
  logout
  status
  list <kind> [-page N] [key=value ...]
  get <kind> <id>
  create <kind> <json>
  update <kind> <id> <json>
  delete <kind> <id>

kinds: books, authors, categories, user

flags go before positional arguments, e.g. list books -page 2 category=fiction`

var errUsage = errors.New(usage)

type app struct {
	client  *apiclient.Client
	session *authsession.Manager
	account *account.Service
	logger  logrus.FieldLogger
	out     io.Writer
}

// logNavigator stands in for view changes on the command line.
type logNavigator struct {
	logger logrus.FieldLogger
}

func (n logNavigator) Navigate(path string) {
	n.logger.WithField("path", path).Debug("navigate")
}

func newApp(apiURL string, session *authsession.Manager, notifier apiclient.Notifier, logger logrus.FieldLogger, out io.Writer) *app {
	client := apiclient.New(apiURL,
		apiclient.WithTokenSource(session),
		apiclient.WithNotifier(notifier),
		apiclient.WithLogger(logger),
	)
	return &app{
		client:  client,
		session: session,
		account: account.NewClientService(client, session, notifier, logNavigator{logger}),
		logger:  logger,
		out:     out,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login", "register":
		return a.credentials(ctx, cmd, rest)
	case "logout":
		return a.account.Logout()
	case "status":
		if a.session.IsAuthenticated() {
			_, err := fmt.Fprintln(a.out, "authenticated")
			return err
		}
		_, err := fmt.Fprintln(a.out, "anonymous")
		return err
	case "list", "get", "create", "update", "delete":
		if len(rest) == 0 {
			return errUsage
		}
		kind, err := apiclient.ParseKind(rest[0])
		if err != nil {
			return err
		}
		return a.entity(ctx, kind, cmd, rest[1:])
	case "help", "-h", "--help":
		_, err := fmt.Fprintln(a.out, usage)
		return err
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (a *app) credentials(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("CATALOG_PASSWORD"), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%s needs -email and -password (or CATALOG_PASSWORD)", cmd)
	}

	if cmd == "login" {
		return a.account.Login(ctx, *email, *password)
	}
	created, err := a.account.Register(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.print(created)
}

func (a *app) entity(ctx context.Context, kind apiclient.Kind, op string, args []string) error {
	switch kind {
	case apiclient.KindBook:
		return runEntity(ctx, a, a.client.Books(), op, args)
	case apiclient.KindAuthor:
		return runEntity(ctx, a, a.client.Authors(), op, args)
	case apiclient.KindCategory:
		return runEntity(ctx, a, a.client.Categories(), op, args)
	case apiclient.KindUser:
		return runEntity(ctx, a, a.client.Users(), op, args)
	default:
		return fmt.Errorf("unsupported kind %s", kind)
	}
}

func runEntity[T apiclient.Model](ctx context.Context, a *app, r *apiclient.Resource[T], op string, args []string) error {
	switch op {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		page := fs.Int("page", 1, "page number")
		if err := fs.Parse(args); err != nil {
			return err
		}
		filters, err := parseFilters(fs.Args())
		if err != nil {
			return err
		}
		result, err := r.List(ctx, *page, filters)
		if err != nil {
			return err
		}
		return a.print(map[string]any{"totalItems": result.TotalItems, "page": *page, "member": result.Items})

	case "get":
		if len(args) != 1 {
			return errUsage
		}
		v, err := r.Get(ctx, apiclient.ID(args[0]))
		if err != nil {
			return err
		}
		return a.print(v)

	case "create":
		if len(args) != 1 {
			return errUsage
		}
		var payload T
		if err := json.Unmarshal([]byte(args[0]), &payload); err != nil {
			return fmt.Errorf("invalid %s JSON: %w", r.Kind(), err)
		}
		v, err := r.Create(ctx, payload)
		if err != nil {
			return err
		}
		return a.print(v)

	case "update":
		if len(args) != 2 {
			return errUsage
		}
		var patch apiclient.Patch
		if err := json.Unmarshal([]byte(args[1]), &patch); err != nil {
			return fmt.Errorf("invalid merge patch: %w", err)
		}
		v, err := r.Update(ctx, apiclient.ID(args[0]), patch)
		if err != nil {
			return err
		}
		return a.print(v)

	case "delete":
		if len(args) != 1 {
			return errUsage
		}
		if err := r.Delete(ctx, apiclient.ID(args[0])); err != nil {
			return err
		}
		_, err := fmt.Fprintf(a.out, "deleted %s %s\n", r.Kind(), args[0])
		return err
	}
	return errUsage
}

func parseFilters(args []string) (map[string]string, error) {
	filters := make(map[string]string, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %q must come before the filters", arg)
		}
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("filter %q is not key=value", arg)
		}
		filters[key] = value
	}
	return filters, nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
