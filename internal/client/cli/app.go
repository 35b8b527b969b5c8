package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

type App struct {
	config   *config.Config
	client   client.Client
	reader   *bufio.Reader
	out      io.Writer
	loginKey string
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewAuthKeeperClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, reader: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(guest)"
	}
	return "(" + a.loginKey + ")"
}

// Run starts the REPL and closes the connection when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	printlnFn("Welcome to authkeeper CLI (type 'help' for commands)")
	if err := a.client.Ping(ctx); err != nil {
		printlnFn("warning: server not reachable:", err.Error())
	}

	runREPL(ctx, a, a.status, a.reader)
}
