package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/usecase"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const chatHelp = `Commands:
  /memories                     list what is remembered about you
  /recommend                    get this week's recommendations
  /track <implemented|skipped> <action>
                                record feedback on a recommended action
  /onboarding                   show whether a business profile is stored
  /forget                       delete every memory
  /help                         show this help
  /quit                         leave the session`

func cmdChat() *cli.Command {
	var userID string
	var rt runtime

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "User ID (UUID) to chat as. A new one is generated when empty",
			Sources:     cli.EnvVars("NEM0_USER_ID"),
			Destination: &userID,
		},
	}
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with the assistant in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := rt.build(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if userID == "" {
				userID = uuid.NewString()
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create markdown renderer")
			}

			session := &chatSession{
				uc:     uc,
				userID: userID,
				in:     os.Stdin,
				out:    os.Stdout,
				render: func(text string) string {
					out, err := renderer.Render(text)
					if err != nil {
						logging.From(ctx).Warn("failed to render markdown", logging.ErrAttr(err))
						return text + "\n"
					}
					return out
				},
			}
			return session.run(ctx)
		},
	}
}

// chatSession is one interactive terminal conversation as a single user
type chatSession struct {
	uc     *usecase.UseCases
	userID string
	in     io.Reader
	out    io.Writer
	render func(string) string
}

var (
	promptColor = color.New(color.FgGreen, color.Bold)
	nameColor   = color.New(color.FgCyan, color.Bold)
	infoColor   = color.New(color.FgHiBlack)
	errColor    = color.New(color.FgRed)
)

func (s *chatSession) run(ctx context.Context) error {
	infoColor.Fprintf(s.out, "Chatting as %s. Type /help for commands.\n", s.userID)

	// Lines of any length are read. Oversized messages fail validation per line.
	reader := bufio.NewReader(s.in)
	for {
		promptColor.Fprint(s.out, "you> ")
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return goerr.Wrap(readErr, "failed to read input")
		}

		if line := strings.TrimSpace(raw); line != "" {
			quit, err := s.handle(ctx, line)
			if err != nil {
				errColor.Fprintf(s.out, "error: %s\n", err.Error())
			} else if quit {
				return nil
			}
		}

		if readErr != nil {
			break
		}
	}

	fmt.Fprintln(s.out)
	return nil
}

// handle runs one input line. It reports whether the session should end.
func (s *chatSession) handle(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(line, "/") {
		reply, err := s.uc.Chat.Chat(ctx, s.userID, line)
		if err != nil {
			return false, err
		}
		nameColor.Fprintln(s.out, "nem0>")
		fmt.Fprint(s.out, s.render(reply.Reply))
		infoColor.Fprintf(s.out, "(%d memories used)\n", reply.MemoriesUsed)
		return false, nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Fprintln(s.out, chatHelp)

	case "/memories":
		memories, _, err := s.uc.Memory.ListMemories(ctx, s.userID)
		if err != nil {
			return false, err
		}
		if len(memories) == 0 {
			infoColor.Fprintln(s.out, "No memories yet.")
			return false, nil
		}
		for _, m := range memories {
			fmt.Fprintf(s.out, "- %s ", m.Content)
			infoColor.Fprintf(s.out, "(%s)\n", m.CreatedAt.Format("2006-01-02 15:04"))
		}

	case "/recommend":
		rec, err := s.uc.Recommendation.Recommend(ctx, s.userID)
		if err != nil {
			return false, err
		}
		nameColor.Fprintln(s.out, "nem0>")
		fmt.Fprint(s.out, s.render(rec.Text))

	case "/track":
		status, action, _ := strings.Cut(arg, " ")
		if _, err := s.uc.Recommendation.TrackAction(ctx, s.userID, action, status); err != nil {
			return false, err
		}
		infoColor.Fprintln(s.out, "Feedback recorded.")

	case "/onboarding":
		complete, _, err := s.uc.Profile.CheckOnboarding(ctx, s.userID)
		if err != nil {
			return false, err
		}
		if complete {
			infoColor.Fprintln(s.out, "Business profile is stored.")
		} else {
			infoColor.Fprintln(s.out, "No business profile yet.")
		}

	case "/forget":
		if _, err := s.uc.Memory.DeleteMemories(ctx, s.userID); err != nil {
			return false, err
		}
		infoColor.Fprintln(s.out, "All memories deleted.")

	default:
		return false, goerr.New("unknown command, type /help", goerr.V("command", cmd))
	}

	return false, nil
}
