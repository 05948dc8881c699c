package client

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/orris-inc/deskhub/internal/client/api"
	"github.com/orris-inc/deskhub/internal/client/credstore"
	"github.com/orris-inc/deskhub/internal/client/session"
	"github.com/orris-inc/deskhub/internal/shared/version"
)

const (
	defaultServer = "http://localhost:8080"
	installKeyLen = 32
)

type options struct {
	server      string
	storePath   string
	system      string
	fingerprint string
}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Sign in and manage devices from the command line",
		Long:  `Talk to a Deskhub server the way the desktop app does. The token is kept encrypted under the user's config directory.`,
	}

	server := os.Getenv("DESKHUB_SERVER")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "Server base URL (env DESKHUB_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "Credential file (default: <user config dir>/deskhub/credentials.enc)")
	cmd.PersistentFlags().StringVar(&opts.system, "system", defaultSystem(), "Device description sent as X-System")
	cmd.PersistentFlags().StringVar(&opts.fingerprint, "fingerprint", "", "Device fingerprint sent as X-Device-Fingerprint")

	cmd.AddCommand(
		newLoginCommand(opts),
		newRegisterCommand(opts),
		newLogoutCommand(opts),
		newSessionsCommand(opts),
		newRevokeCommand(opts),
		newRevokeAllCommand(opts),
		newWhoamiCommand(opts),
	)

	return cmd
}

func newLoginCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with e-mail and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			auth, err := s.Login(ctxOf(cmd), email, password).Unwrap()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (token valid until %s)\n", displayName(auth.User, email), auth.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCommand(opts *options) *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			if req.Password, err = readPassword(cmd, "Choose a password: "); err != nil {
				return err
			}

			auth, err := s.Register(ctxOf(cmd), req).Unwrap()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created; signed in as %s\n", displayName(auth.User, req.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "Username (3-32 characters: a-z, 0-9, '.', '_', '-')")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&req.Timezone, "timezone", "", "IANA time zone, e.g. Europe/Berlin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.restore()
			if err != nil {
				return err
			}
			if err := s.SignOut(ctxOf(cmd)); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server did not confirm sign-out: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newSessionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List devices signed in to this account",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.restore()
			if err != nil {
				return err
			}
			list, err := s.Sessions(ctxOf(cmd)).Unwrap()
			if err != nil {
				return err
			}
			printSessions(cmd.OutOrStdout(), list.Sessions)
			return nil
		},
	}
}

func newRevokeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <session-id>",
		Short: "Sign out another device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			s, err := opts.restore()
			if err != nil {
				return err
			}
			if _, err := s.Revoke(ctxOf(cmd), uint(id)).Unwrap(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %d revoked\n", id)
			return nil
		},
	}
}

func newRevokeAllCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-all",
		Short: "Sign out every other device",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.restore()
			if err != nil {
				return err
			}
			out, err := s.RevokeAll(ctxOf(cmd)).Unwrap()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d other session(s) revoked\n", out.Revoked)
			return nil
		},
	}
}

func newWhoamiCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account and server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.restore()
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			out := cmd.OutOrStdout()

			me, err := s.Me(ctx).Unwrap()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s <%s>\n", me.Username, me.Email)
			fmt.Fprintf(out, "Server: %s\n", opts.server)

			if health, ok := opts.client().Health(ctx).Data(); ok {
				fmt.Fprint(out, versionNotice(version.Current, health.Version))
			}
			return nil
		},
	}
}

func (o *options) client() *api.Client {
	return api.New(o.server,
		api.WithDevice(o.system, o.fingerprint),
		api.WithUserAgent("deskhub-cli/"+version.Current),
	)
}

func (o *options) open() (*session.Session, error) {
	path := o.storePath
	if path == "" {
		var err error
		if path, err = credstore.DefaultPath(); err != nil {
			return nil, err
		}
	}

	secret, err := installSecret(filepath.Join(filepath.Dir(path), "install.key"))
	if err != nil {
		return nil, err
	}
	store, err := credstore.New(path, secret)
	if err != nil {
		return nil, err
	}
	return session.New(o.client(), store), nil
}

// restore opens the session and requires a usable stored token.
func (o *options) restore() (*session.Session, error) {
	s, err := o.open()
	if err != nil {
		return nil, err
	}
	ok, err := s.Restore()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("not signed in; run `deskhub client login` first")
	}
	return s, nil
}

// installSecret returns the random key generated the first time the client runs on this
// machine.
func installSecret(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil && len(key) == installKeyLen {
		return key, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read install key: %w", err)
	}

	key = make([]byte, installKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate install key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write install key: %w", err)
	}
	return key, nil
}

func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}

func printSessions(out io.Writer, sessions []api.Session) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDEVICE\tIP\tMETHOD\tLAST USED\t")
	for _, s := range sessions {
		marker := ""
		if s.IsCurrentSession {
			marker = "(this device)"
		}
		device := s.Device
		if s.SystemInfo != "" {
			device = s.SystemInfo
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, device, s.IPAddress, s.AuthMethod, s.LastUsedAt.Local().Format("2006-01-02 15:04"), marker)
	}
	w.Flush()
}

func versionNotice(clientVersion, serverVersion string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Server version: %s, client version: %s\n", orUnknown(serverVersion), clientVersion)
	if !version.IsCompatible(clientVersion, serverVersion) {
		b.WriteString("warning: this client is not compatible with the server; please update\n")
	} else if version.HasNewerVersion(clientVersion, serverVersion) {
		b.WriteString("A newer version is available\n")
	}
	return b.String()
}

func displayName(u *api.User, fallback string) string {
	if u != nil && u.Username != "" {
		return u.Username
	}
	return fallback
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func defaultSystem() string {
	host, _ := os.Hostname()
	if host == "" {
		return runtime.GOOS + "/" + runtime.GOARCH
	}
	return fmt.Sprintf("%s (%s/%s)", host, runtime.GOOS, runtime.GOARCH)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
