// Package main (cmd/catalog-client) is a small CLI client for the catalog
// API: list, fetch and archive hackathons and exercise the auth routes.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"
)

var flagServerAddr *cli.StringFlag = &cli.StringFlag{
	Name:  "server-addr",
	Value: "http://127.0.0.1:8080",
	Usage: "Catalog server address to request",
}
var flagToken *cli.StringFlag = &cli.StringFlag{
	Name:    "token",
	EnvVars: []string{"CATALOG_TOKEN"},
	Usage:   "Session token for authenticated requests",
}

func main() {
	app := &cli.App{
		Name:  "catalog client",
		Usage: "query and manage the hackathon catalog API",
		Flags: []cli.Flag{
			flagServerAddr,
			flagToken,
		},
		Commands: []*cli.Command{
			{
				Name:        "list",
				Description: "List active hackathons",
				Action: func(cCtx *cli.Context) error {
					c := newClient(cCtx)
					return c.do(http.MethodGet, "/api/hackathons", nil)
				},
			},
			{
				Name:        "get",
				ArgsUsage:   "<id>",
				Description: "Fetch one hackathon by id",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return fmt.Errorf("expected exactly one argument: the hackathon id")
					}
					c := newClient(cCtx)
					return c.do(http.MethodGet, "/api/hackathons/"+cCtx.Args().First(), nil)
				},
			},
			{
				Name:        "get-slug",
				ArgsUsage:   "<slug>",
				Description: "Fetch one hackathon by slug",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return fmt.Errorf("expected exactly one argument: the slug")
					}
					c := newClient(cCtx)
					return c.do(http.MethodGet, "/api/hackathons/slug/"+cCtx.Args().First(), nil)
				},
			},
			{
				Name:        "archive",
				ArgsUsage:   "<id>",
				Description: "Archive a hackathon",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return fmt.Errorf("expected exactly one argument: the hackathon id")
					}
					c := newClient(cCtx)
					return c.do(http.MethodDelete, "/api/hackathons/"+cCtx.Args().First(), nil)
				},
			},
			{
				Name:        "login",
				ArgsUsage:   "<email> <password>",
				Description: "Authenticate and print the session token envelope",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return fmt.Errorf("expected two arguments: email and password")
					}
					c := newClient(cCtx)
					body := map[string]string{
						"email":    cCtx.Args().Get(0),
						"password": cCtx.Args().Get(1),
					}
					return c.do(http.MethodPost, "/api/auth/login", body)
				},
			},
			{
				Name:        "status",
				Description: "Report which catalog tier is serving the process",
				Action: func(cCtx *cli.Context) error {
					c := newClient(cCtx)
					return c.do(http.MethodGet, "/api/status", nil)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type client struct {
	serverAddr string
	token      string
}

func newClient(cCtx *cli.Context) *client {
	return &client{
		serverAddr: cCtx.String(flagServerAddr.Name),
		token:      cCtx.String(flagToken.Name),
	}
}

func (c *client) do(method, path string, body any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.serverAddr+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
