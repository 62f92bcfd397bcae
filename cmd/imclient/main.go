// Copyright 2019 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// The imclient command is a line based chat client.
// It connects to an XMPP server, fetches the roster and then reads commands
// and messages from stdin.
//
// For more information run imclient -help or type "/help" at the prompt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mellium.im/imclient"
	"mellium.im/imclient/config"
	"mellium.im/imclient/history"
	"mellium.im/imclient/jid"
	"mellium.im/imclient/roster"
)

const prompt = "> "

type logWriter struct {
	logger *log.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Printf("%s", p)
	return len(p), nil
}

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	debug := log.New(io.Discard, "DEBUG ", log.LstdFlags)
	sentXML := log.New(io.Discard, "SENT ", log.LstdFlags)
	recvXML := log.New(io.Discard, "RECV ", log.LstdFlags)

	var (
		help       bool
		verbose    bool
		logXML     bool
		configPath string
	)
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.BoolVar(&help, "help", help, "Show this help message")
	flags.BoolVar(&help, "h", help, "")
	flags.BoolVar(&verbose, "v", verbose, "Show verbose logging.")
	flags.BoolVar(&logXML, "vv", logXML, "Show verbose logging and sent and received XML.")
	flags.StringVar(&configPath, "config", configPath, "A YAML, TOML or JSON file to load settings from.")

	err := flags.Parse(os.Args[1:])
	switch err {
	case flag.ErrHelp:
		help = true
	case nil:
	default:
		logger.Fatalf("error parsing flags: %v", err)
	}
	if help {
		printUsage(flags)
		os.Exit(0)
	}

	if verbose {
		debug.SetOutput(os.Stderr)
	}
	if logXML {
		debug.SetOutput(os.Stderr)
		sentXML.SetOutput(os.Stderr)
		recvXML.SetOutput(os.Stderr)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatalf("error loading configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	addr, _ := cfg.Address()

	store, closeStore, err := openHistory(cfg.HistoryPath)
	if err != nil {
		logger.Fatalf("error opening history: %v", err)
	}
	// Deferred calls run before the process exits with a failure status so the
	// session is always closed properly.
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()
	defer closeStore()

	contacts := &roster.List{}
	clientCfg := cfg.Client()
	clientCfg.Roster = contacts
	clientCfg.History = store
	clientCfg.Logger = logger
	clientCfg.Debug = debug
	clientCfg.TeeIn = logWriter{logger: recvXML}
	clientCfg.TeeOut = logWriter{logger: sentXML}
	clientCfg.Listeners = []interface{}{
		imclient.MessageFunc(func(contact jid.JID, resource, body string) {
			fmt.Printf("\nFrom %s/%s: %s\n"+prompt, contact, resource, body)
		}),
		imclient.SubscriptionFunc(func(from jid.JID) {
			fmt.Printf("\n%s wants to subscribe to your presence, use /accept or /deny\n"+prompt, from)
		}),
		imclient.ContactFuncs{
			Added: func(item roster.Item) {
				debug.Printf("contact added: %s", item.JID)
			},
			Removed: func(item roster.Item) {
				fmt.Printf("\n%s was removed from your contacts\n"+prompt, item.JID)
			},
		},
		imclient.PresenceFunc(func(update roster.PresenceUpdate) {
			debug.Printf("%s/%s is now %s", update.JID, update.Resource, update.Status)
		}),
		imclient.SessionFuncs{
			Error: func(err error) {
				logger.Printf("session error: %v", err)
			},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	debug.Printf("logging in as %s…", addr)
	dialCtx, dialCtxCancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	conn, err := imclient.Dial(dialCtx, addr, cfg.Password, clientCfg)
	dialCtxCancel()
	if err != nil {
		logger.Printf("error logging in: %v", err)
		exitCode = 1
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Printf("error ending session: %v", err)
		}
	}()
	debug.Printf("logged in as %s", conn.LocalAddr())

	if err := conn.RequestRoster(ctx); err != nil {
		logger.Printf("error requesting roster: %v", err)
		exitCode = 1
		return
	}
	if err := conn.SendCurrentStatus(ctx); err != nil {
		logger.Printf("error sending initial presence: %v", err)
		exitCode = 1
		return
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		userInput := bufio.NewScanner(os.Stdin)
		for userInput.Scan() {
			lines <- userInput.Text()
		}
		if err := userInput.Err(); err != nil {
			logger.Printf("error reading user input: %v", err)
		}
	}()

	printHelp()
	for {
		fmt.Print(prompt)
		var line string
		var ok bool
		select {
		case <-conn.Done():
			logger.Println("disconnected")
			return
		case line, ok = <-lines:
		}
		if !ok {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, conn, contacts, store, line, logger); quit {
				return
			}
			continue
		}

		idx := strings.IndexByte(line, ':')
		if idx == -1 {
			printHelp()
			continue
		}
		to, err := jid.Parse(strings.TrimSpace(line[:idx]))
		if err != nil {
			logger.Printf("error parsing address: %v", err)
			continue
		}
		err = conn.SendMessage(ctx, imclient.Message{
			To:   to,
			Body: strings.TrimSpace(line[idx+1:]),
		})
		if err != nil {
			logger.Printf("error sending message: %v", err)
		}
	}
}

func openHistory(path string) (history.Store, func(), error) {
	if path == "" {
		return &history.Memory{}, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, err
	}
	store, err := history.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func parseStatus(s string) (roster.Status, bool) {
	for st := roster.Offline; st <= roster.XA; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return roster.Offline, false
}

// runCommand executes a slash command and reports whether the client should
// exit.
func runCommand(ctx context.Context, conn *imclient.Conn, contacts *roster.List, store history.Store, line string, logger *log.Logger) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	arg := func() (jid.JID, bool) {
		if len(args) < 1 {
			printHelp()
			return jid.JID{}, false
		}
		j, err := jid.Parse(args[0])
		if err != nil {
			logger.Printf("error parsing address: %v", err)
			return jid.JID{}, false
		}
		return j, true
	}

	var err error
	switch cmd {
	case "/quit":
		return true
	case "/help":
		printHelp()
	case "/roster":
		for _, item := range contacts.Items() {
			fmt.Printf("%s\t%s\t%s\n", item.JID, item.Name, contacts.Status(item.JID))
		}
	case "/add":
		j, ok := arg()
		if !ok {
			return false
		}
		err = conn.SendNewContactRequest(ctx, roster.Item{
			JID:  j,
			Name: strings.Join(args[1:], " "),
		})
	case "/remove":
		j, ok := arg()
		if !ok {
			return false
		}
		err = conn.RemoveContact(ctx, j)
	case "/accept", "/deny":
		j, ok := arg()
		if !ok {
			return false
		}
		err = conn.RespondContactRequest(ctx, j, cmd == "/accept")
	case "/status":
		if len(args) < 1 {
			s, text := conn.Status()
			fmt.Printf("%s %s\n", s, text)
			return false
		}
		s, ok := parseStatus(args[0])
		if !ok {
			logger.Printf("unknown status %q", args[0])
			return false
		}
		err = conn.SetStatus(ctx, s, strings.Join(args[1:], " "))
	case "/history":
		j, ok := arg()
		if !ok {
			return false
		}
		var msgs []history.Message
		msgs, err = store.Messages(ctx, j)
		for _, m := range msgs {
			dir := "<"
			if !m.Incoming {
				dir = ">"
			}
			fmt.Printf("%s %s %s\n", m.Time.Format("15:04"), dir, m.Body)
		}
	default:
		printHelp()
	}
	if err != nil {
		logger.Printf("%s failed: %v", cmd, err)
	}
	return false
}

func printUsage(flags *flag.FlagSet) {
	fmt.Fprintf(flags.Output(), "Usage of %s:\n", os.Args[0])
	flags.PrintDefaults()
	fmt.Fprintf(flags.Output(), `
Settings are read from the file given with -config and may be overridden with
environment variables, for example:

    %[1]s_JID=juliet@example.com
    %[1]s_PASSWORD=<not shown>
    %[1]s_SERVER=xmpp.example.com:5222
`, config.EnvPrefix)
}

func printHelp() {
	fmt.Println(`Enter a JID, a colon, and a message to send. eg. romeo@example.net: Hello
Commands:
  /roster                  list contacts
  /add <jid> [name]        add a contact and ask for their presence
  /remove <jid>            remove a contact
  /accept <jid>            accept a subscription request
  /deny <jid>              refuse a subscription request
  /status [status] [text]  show or set your status (available, away, chat, dnd, xa, offline)
  /history <jid>           show the conversation with a contact
  /quit                    disconnect`)
}
