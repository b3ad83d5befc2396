// Package cli implements the social network terminal client on top of the
// session controller.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/minilinkedin/social-network/internal/client/api"
	"github.com/minilinkedin/social-network/internal/client/session"
	"github.com/minilinkedin/social-network/internal/core/domain"
)

// ErrUsage is returned for unknown commands or missing arguments.
var ErrUsage = errors.New("usage")

const usage = `Usage: social <command> [args]

Commands:
  register                      create an account and sign in
  login                         sign in
  logout                        forget the stored session
  whoami                        show the signed-in user
  users                         list members
  feed                          list posts, newest first
  post <text>                   publish a post
  show <postId>                 show a post and its comments
  comment <postId> <text>       comment on a post
  profile [--name N] [--headline H] [--bio B]
                                show or edit your profile
`

type App struct {
	ctrl *session.Controller
	in   *bufio.Reader
	out  io.Writer
}

func NewApp(ctrl *session.Controller, in io.Reader, out io.Writer) *App {
	return &App{ctrl: ctrl, in: bufio.NewReader(in), out: out}
}

// Run restores the stored session, then executes one command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		fmt.Fprint(a.out, usage)
		return nil
	}

	if _, err := a.ctrl.Start(ctx); err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		if err := a.ctrl.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "whoami":
		return a.whoami()
	case "users":
		return a.users(ctx)
	case "feed":
		return a.feed(ctx)
	case "post":
		if len(rest) == 0 {
			return fmt.Errorf("%w: post <text>", ErrUsage)
		}
		return a.post(ctx, strings.Join(rest, " "))
	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("%w: show <postId>", ErrUsage)
		}
		return a.show(ctx, rest[0])
	case "comment":
		if len(rest) < 2 {
			return fmt.Errorf("%w: comment <postId> <text>", ErrUsage)
		}
		return a.comment(ctx, rest[0], strings.Join(rest[1:], " "))
	case "profile":
		return a.profile(ctx, rest)
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) register(ctx context.Context) error {
	var req api.RegisterRequest
	var err error
	if req.DisplayName, err = prompt(a.in, a.out, "Display name"); err != nil {
		return err
	}
	if req.Headline, err = prompt(a.in, a.out, "Headline"); err != nil {
		return err
	}
	if req.Email, err = prompt(a.in, a.out, "Email"); err != nil {
		return err
	}
	if req.Bio, err = promptOptional(a.in, a.out, "Bio"); err != nil {
		return err
	}
	if req.Password, err = promptPassword(a.out); err != nil {
		return err
	}
	if req.DisplayName == "" || req.Headline == "" {
		return errors.New("display name and headline are required")
	}

	s, err := a.ctrl.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s\n", s.User.DisplayName)
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := prompt(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.ctrl.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", s.User.DisplayName)
	return nil
}

func (a *App) whoami() error {
	s := a.ctrl.Current()
	if !s.Authenticated() {
		fmt.Fprintln(a.out, "Viewing as guest")
		return nil
	}
	printUser(a.out, s.User)
	return nil
}

func (a *App) users(ctx context.Context) error {
	users, err := a.ctrl.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s  %s - %s\n", u.ID, u.DisplayName, u.Headline)
	}
	return nil
}

func (a *App) feed(ctx context.Context) error {
	posts, err := a.ctrl.Feed(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet")
		return nil
	}
	for _, p := range posts {
		printPost(a.out, p)
	}
	return nil
}

func (a *App) post(ctx context.Context, text string) error {
	p, err := a.ctrl.CreatePost(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Posted %s\n", p.ID)
	return nil
}

func (a *App) show(ctx context.Context, postID string) error {
	p, err := a.ctrl.Post(ctx, postID)
	if err != nil {
		return err
	}
	comments, err := a.ctrl.Comments(ctx, postID)
	if err != nil {
		return err
	}

	printPost(a.out, *p)
	for _, c := range comments {
		fmt.Fprintf(a.out, "    %s: %s\n", c.Author.DisplayName, c.Content)
	}
	return nil
}

func (a *App) comment(ctx context.Context, postID, text string) error {
	c, err := a.ctrl.CreateComment(ctx, postID, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Commented %s\n", c.ID)
	return nil
}

func (a *App) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "display name")
	headline := fs.String("headline", "", "headline")
	bio := fs.String("bio", "", "bio")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var update api.ProfileUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.DisplayName = name
		case "headline":
			update.Headline = headline
		case "bio":
			update.Bio = bio
		}
	})

	if update == (api.ProfileUpdate{}) {
		return a.whoami()
	}

	user, err := a.ctrl.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	printUser(a.out, user)
	return nil
}

func printUser(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "%s <%s>\n%s\n", u.DisplayName, u.Email, u.Headline)
	if u.Bio != "" {
		fmt.Fprintln(w, u.Bio)
	}
}

func printPost(w io.Writer, p domain.PostView) {
	fmt.Fprintf(w, "[%s] %s (%s)\n  %s\n", p.ID, p.Author.DisplayName, p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Content)
}
