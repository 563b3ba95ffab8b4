package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
)

var opts struct {
	APIURL  string `short:"u" long:"api-url" description:"Base URL of the PicsFeed API" default:"http://localhost:8000" env:"PICSFEED_API_URL"`
	Output  string `short:"o" long:"output" description:"Directory exports are saved to" default:"output" env:"PICSFEED_OUTPUT"`
	Verbose bool   `short:"v" long:"verbose" description:"Log debug diagnostics to stderr" env:"PICSFEED_VERBOSE"`
}

// app wires the feed workflow for one run of the binary.
type app struct {
	client *Client
	feed   *FeedStore
	votes  *VoteDispatcher
	export *ExportDownloader
	out    io.Writer
}

func newApp(apiURL, outputDir string, out io.Writer, logger *slog.Logger) (*app, error) {
	client, err := NewClient(apiURL, nil)
	if err != nil {
		return nil, err
	}
	feed := NewFeedStore(client, logger)
	return &app{
		client: client,
		feed:   feed,
		votes:  NewVoteDispatcher(client, feed, logger),
		export: NewExportDownloader(client, DirSaver{Dir: outputDir}, logger),
		out:    out,
	}, nil
}

var errFeedFailed = errors.New("feed failed to load")

func currentApp() (*app, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return newApp(opts.APIURL, opts.Output, os.Stdout, logger)
}

type feedCommand struct {
	ctx context.Context
}

func (c *feedCommand) Execute(args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}
	return a.showFeed(c.ctx)
}

type voteCommand struct {
	ctx  context.Context
	Args struct {
		ImageID  string `positional-arg-name:"image-id" description:"Id of the image to vote on"`
		VoteType string `positional-arg-name:"vote-type" description:"like or dislike"`
	} `positional-args:"yes" required:"yes"`
}

func (c *voteCommand) Execute(args []string) error {
	voteType, err := ParseVoteType(c.Args.VoteType)
	if err != nil {
		return err
	}
	a, err := currentApp()
	if err != nil {
		return err
	}
	return a.castVote(c.ctx, c.Args.ImageID, voteType)
}

type exportCommand struct {
	ctx context.Context
}

func (c *exportCommand) Execute(args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}
	a.runExport(c.ctx)
	return nil
}

type healthCommand struct {
	ctx context.Context
}

func (c *healthCommand) Execute(args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}
	return a.checkHealth(c.ctx)
}

// showFeed loads the feed once and renders the settled state.
func (a *app) showFeed(ctx context.Context) error {
	state := a.feed.Load(ctx)
	renderFeed(a.out, state)
	if state.Status == Failed {
		return errFeedFailed
	}
	return nil
}

// castVote loads the feed, votes, and renders whatever the feed settled on.
// A rejected vote leaves the first load on screen.
func (a *app) castVote(ctx context.Context, idText string, voteType VoteType) error {
	id, err := resolveImageID(a.feed.Load(ctx), idText)
	if err != nil {
		return err
	}
	a.votes.Vote(ctx, id, voteType)
	state := a.feed.State()
	renderFeed(a.out, state)
	if state.Status == Failed {
		return errFeedFailed
	}
	return nil
}

// resolveImageID picks the server's own id token for the image shown as
// text, so "42" and 42 stay distinct. Text matching no loaded image is parsed
// as typed.
func resolveImageID(state FeedState, text string) (ImageID, error) {
	for _, img := range state.Images() {
		if img.ID.String() == text {
			return img.ID, nil
		}
	}
	return ParseImageID(text)
}

func (a *app) runExport(ctx context.Context) {
	if path := a.export.Run(ctx); path != "" {
		fmt.Fprintf(a.out, "Votes exported to %s\n", path)
	}
}

func (a *app) checkHealth(ctx context.Context) error {
	status, err := a.client.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "API %s is %s\n", a.client.baseURL, status)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.AddCommand("feed", "Show the image feed", "Fetch the images and their vote counts.", &feedCommand{ctx: ctx})
	parser.AddCommand("vote", "Vote on an image", "Like or dislike an image, then show the refreshed feed.", &voteCommand{ctx: ctx})
	parser.AddCommand("export", "Export votes", "Download the vote tallies as "+ExportFileName+".", &exportCommand{ctx: ctx})
	parser.AddCommand("health", "Check the API", "Check that the API answers GET /health.", &healthCommand{ctx: ctx})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			return
		}
		if !errors.Is(err, errFeedFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
