package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/goliatone/go-print"

	authstate "github.com/goliatone/go-auth-state"
	"github.com/goliatone/go-auth-state/activitymap"
	"github.com/goliatone/go-auth-state/authtest"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo-password"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("authstate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: authstate [flags] <login|me|logout|password|profile>...")
		fs.PrintDefaults()
	}

	var (
		email    = fs.String("email", "", "login email")
		password = fs.String("password", "", "login password")
		current  = fs.String("current", "", "current password (password command)")
		next     = fs.String("new", "", "new password (password command)")
		confirm  = fs.String("confirm", "", "new password confirmation (password command)")
		fullName = fs.String("full-name", "", "full name (profile command)")
		about    = fs.String("about", "", "about me (profile command)")
		phone    = fs.String("phone", "", "phone number (profile command)")
		avatar   = fs.String("avatar", "", "avatar file to upload (profile command)")
		resume   = fs.String("resume", "", "resume file to upload (profile command)")
		validate = fs.Bool("validate", false, "validate payloads before sending them")
		demo     = fs.Bool("demo", false, "run against an in-process demo service")
		quiet    = fs.Bool("quiet", false, "only print the final state")
		activity = fs.Bool("activity", false, "write activity events as JSON lines to stderr")
		verbose  = fs.Bool("verbose", false, "log requests and transitions to stderr")
	)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	commands := fs.Args()
	if len(commands) == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := authstate.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	cfg.ValidatePayloads = cfg.ValidatePayloads || *validate

	if *demo {
		srv, err := startDemo()
		if err != nil {
			fmt.Fprintf(stderr, "demo: %v\n", err)
			return 1
		}
		defer srv.Close()
		cfg.BaseURL = srv.URL()
		if *email == "" && *password == "" {
			*email, *password = demoEmail, demoPassword
		}
	}

	logger := authstate.NopLogger()
	if *verbose {
		logger = authstate.NewSlogLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		cfg.Debug = true
	}

	opts := []authstate.SessionOption{authstate.WithLogger(logger)}
	if *activity {
		opts = append(opts, authstate.WithActivitySink(
			activitymap.NewJSONSink(stderr, activitymap.WithDefaultChannel("cli")),
		))
	}

	session, err := authstate.NewSessionFromConfig(cfg, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "session: %v\n", err)
		return 1
	}

	var state authstate.SessionState
	for _, cmd := range commands {
		switch cmd {
		case "login":
			state = session.Login(ctx, *email, *password)
		case "me":
			state = session.RestoreSession(ctx)
		case "logout":
			state = session.Logout(ctx)
		case "password":
			state = session.ChangePassword(ctx, *current, *next, *confirm)
		case "profile":
			form := authstate.ProfileFormFromUser(session.State().User)
			if *fullName != "" {
				form.FullName = *fullName
			}
			if *about != "" {
				form.AboutMe = *about
			}
			if *phone != "" {
				form.Phone = *phone
			}
			closeUploads, err := attachUploads(&form, *avatar, *resume)
			if err != nil {
				fmt.Fprintf(stderr, "profile: %v\n", err)
				return 1
			}
			state = session.UpdateProfile(ctx, form)
			closeUploads()
		default:
			fmt.Fprintf(stderr, "unknown command %q\n", cmd)
			return 2
		}

		if !*quiet {
			fmt.Fprintf(stdout, "# %s\n%s\n", cmd, print.MaybePrettyJSON(state))
		}
	}

	if *quiet {
		fmt.Fprintln(stdout, print.MaybePrettyJSON(state))
	}

	if state.HasError() {
		return 1
	}
	return 0
}

// attachUploads opens the avatar and resume files into form. The returned
// func closes them; on error anything already opened is closed.
func attachUploads(form *authstate.ProfileForm, avatarPath, resumePath string) (func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, f := range []struct {
		path string
		dst  **authstate.FileUpload
	}{{avatarPath, &form.Avatar}, {resumePath, &form.Resume}} {
		if f.path == "" {
			continue
		}
		upload, c, err := openUpload(f.path)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, c)
		*f.dst = upload
	}
	return closeAll, nil
}

func openUpload(path string) (*authstate.FileUpload, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return &authstate.FileUpload{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     f,
	}, f, nil
}

func startDemo() (*authtest.Server, error) {
	srv := authtest.NewServer()
	_, err := srv.AddUser(authstate.User{
		FullName: "Demo User",
		Email:    demoEmail,
		AboutMe:  "Seeded by authstate -demo",
	}, demoPassword)
	if err != nil {
		srv.Close()
		return nil, err
	}
	return srv, nil
}
