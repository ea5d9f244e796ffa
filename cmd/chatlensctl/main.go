package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheus3301/chatlens/internal/config"
	"github.com/matheus3301/chatlens/internal/workspace"
)

func main() {
	addrFlag := flag.String("addr", "", "daemon address (overrides config listen_addr)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	limitFlag := flag.Int("limit", 50, "max results for messages and search")
	minShareFlag := flag.Float64("min-share", 0, "minimum sender share percent for filter")
	startFlag := flag.String("start", "", "filter start date (YYYY-MM-DD)")
	endFlag := flag.String("end", "", "filter end date (YYYY-MM-DD)")
	weekdaysFlag := flag.String("weekdays", "", "comma-separated weekday labels for filter (e.g. Mon,Tue)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c := &client{baseURL: "http://" + resolveAddr(*addrFlag)}

	switch args[0] {
	case "upload":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatlensctl upload <export.txt>")
			os.Exit(1)
		}
		cmdUpload(c, args[1], *jsonFlag)
	case "list":
		cmdList(c, *jsonFlag)
	case "show":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatlensctl show <chat-id>")
			os.Exit(1)
		}
		cmdShow(c, args[1], *jsonFlag)
	case "messages":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatlensctl messages <chat-id>")
			os.Exit(1)
		}
		cmdMessages(c, args[1], *limitFlag, *jsonFlag)
	case "filter":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatlensctl filter <chat-id>")
			os.Exit(1)
		}
		cmdFilter(c, args[1], *minShareFlag, *startFlag, *endFlag, *weekdaysFlag, *jsonFlag)
	case "search":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: chatlensctl search <chat-id> <query>")
			os.Exit(1)
		}
		cmdSearch(c, args[1], strings.Join(args[2:], " "), *limitFlag, *jsonFlag)
	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatlensctl delete <chat-id>")
			os.Exit(1)
		}
		cmdDelete(c, args[1])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: chatlensctl [--addr <host:port>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  upload <file>          Parse and store a chat export")
	fmt.Fprintln(os.Stderr, "  list                   List stored chats")
	fmt.Fprintln(os.Stderr, "  show <id>              Show chat metadata and sender stats")
	fmt.Fprintln(os.Stderr, "  messages <id>          Print the first messages of a chat")
	fmt.Fprintln(os.Stderr, "  filter <id>            Recompute a filtered view")
	fmt.Fprintln(os.Stderr, "  search <id> <query>    Full-text search within a chat")
	fmt.Fprintln(os.Stderr, "  delete <id>            Delete a stored chat")
}

func resolveAddr(flagAddr string) string {
	if flagAddr != "" {
		return flagAddr
	}
	cfg, _ := config.Load(workspace.ConfigPath())
	return cfg.ListenAddr
}

// client is a thin JSON client over the daemon's HTTP API.
type client struct {
	baseURL string
}

func (c *client) do(method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach daemon at %s: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func cmdUpload(c *client, path string, jsonOut bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}
	var resp struct {
		ID           string `json:"id"`
		MessageCount int    `json:"messageCount"`
		Metadata     struct {
			Language string         `json:"language"`
			OS       string         `json:"os"`
			Senders  map[string]int `json:"senders"`
		} `json:"metadata"`
	}
	err = c.do(http.MethodPost, "/api/chats", map[string]string{
		"fileName": filepath.Base(path),
		"content":  string(content),
	}, &resp)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("Chat:      %s\n", resp.ID)
	fmt.Printf("Messages:  %d\n", resp.MessageCount)
	fmt.Printf("Language:  %s\n", resp.Metadata.Language)
	fmt.Printf("Dialect:   %s\n", resp.Metadata.OS)
	fmt.Printf("Senders:   %d\n", len(resp.Metadata.Senders))
}

func cmdList(c *client, jsonOut bool) {
	var resp struct {
		Chats []struct {
			ID           string    `json:"id"`
			FileName     string    `json:"fileName"`
			MessageCount int       `json:"messageCount"`
			UploadedAt   time.Time `json:"uploadedAt"`
		} `json:"chats"`
	}
	if err := c.do(http.MethodGet, "/api/chats", nil, &resp); err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	if len(resp.Chats) == 0 {
		fmt.Println("No chats stored.")
		return
	}
	for _, chat := range resp.Chats {
		fmt.Printf("%-36s  %-24s  %6d msgs  %s\n",
			chat.ID, chat.FileName, chat.MessageCount,
			chat.UploadedAt.Format("2006-01-02 15:04"))
	}
}

func cmdShow(c *client, id string, jsonOut bool) {
	var resp struct {
		FileName     string            `json:"fileName"`
		Language     string            `json:"language"`
		OS           string            `json:"os"`
		FirstMessage time.Time         `json:"firstMessageDate"`
		LastMessage  time.Time         `json:"lastMessageDate"`
		MessageCount int               `json:"messageCount"`
		Senders      map[string]int    `json:"senders"`
		SendersShort map[string]string `json:"sendersShort"`
	}
	if err := c.do(http.MethodGet, "/api/chats/"+id, nil, &resp); err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("File:      %s\n", resp.FileName)
	fmt.Printf("Language:  %s\n", resp.Language)
	fmt.Printf("Dialect:   %s\n", resp.OS)
	fmt.Printf("Messages:  %d\n", resp.MessageCount)
	fmt.Printf("Range:     %s .. %s\n",
		resp.FirstMessage.Format("2006-01-02"), resp.LastMessage.Format("2006-01-02"))
	fmt.Println("Senders:")
	for name, count := range resp.Senders {
		fmt.Printf("  %-30s %6d  (%s)\n", name, count, resp.SendersShort[name])
	}
}

func cmdMessages(c *client, id string, limit int, jsonOut bool) {
	var resp struct {
		Messages []struct {
			Time    string `json:"time"`
			Sender  string `json:"sender"`
			Message string `json:"message"`
		} `json:"messages"`
		HasMore bool `json:"hasMore"`
	}
	path := fmt.Sprintf("/api/chats/%s/messages?limit=%d", id, limit)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	for _, m := range resp.Messages {
		fmt.Printf("[%s] %s: %s\n", m.Time, m.Sender, m.Message)
	}
	if resp.HasMore {
		fmt.Println("...")
	}
}

func cmdFilter(c *client, id string, minShare float64, start, end, weekdays string, jsonOut bool) {
	filters := map[string]any{
		"minSharePercent": minShare,
	}
	if start != "" {
		filters["startDate"] = start + "T00:00:00Z"
	}
	if end != "" {
		filters["endDate"] = end + "T00:00:00Z"
	}
	if weekdays != "" {
		filters["selectedWeekdays"] = strings.Split(weekdays, ",")
	}

	var resp struct {
		Messages []struct {
			Time    string `json:"time"`
			Sender  string `json:"sender"`
			Message string `json:"message"`
		} `json:"filteredMessages"`
		NewFilters struct {
			SenderStatuses map[string]string `json:"senderStatuses"`
		} `json:"newFilters"`
	}
	err := c.do(http.MethodPost, "/api/chats/"+id+"/filter",
		map[string]any{"filters": filters}, &resp)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("Retained %d messages\n", len(resp.Messages))
	for name, status := range resp.NewFilters.SenderStatuses {
		fmt.Printf("  %-30s %s\n", name, status)
	}
}

func cmdSearch(c *client, id, query string, limit int, jsonOut bool) {
	var resp struct {
		Results []struct {
			Message struct {
				Time   string `json:"time"`
				Sender string `json:"sender"`
			} `json:"message"`
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	path := fmt.Sprintf("/api/chats/%s/search?q=%s&limit=%d", id, url.QueryEscape(query), limit)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	if len(resp.Results) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, hit := range resp.Results {
		fmt.Printf("[%s] %s: %s\n", hit.Message.Time, hit.Message.Sender, hit.Snippet)
	}
}

func cmdDelete(c *client, id string) {
	if err := c.do(http.MethodDelete, "/api/chats/"+id, nil, nil); err != nil {
		fatal(err)
	}
	fmt.Println("Deleted.")
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
