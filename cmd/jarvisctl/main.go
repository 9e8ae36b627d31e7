// jarvisctl is a small command line client for the assistant daemon. It
// sends a typed command or triggers one voice capture and prints the reply.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	cli "github.com/spf13/pflag"
)

func main() {
	addr := cli.StringP("addr", "a", "http://127.0.0.1:8080", "Daemon address")
	listen := cli.BoolP("listen", "l", false, "Capture one spoken command instead of sending text")
	cli.Parse()

	client := &http.Client{Timeout: 90 * time.Second}

	var resp *http.Response
	var err error

	if *listen {
		resp, err = client.Post(*addr+"/v1/voice/listen", "application/json", nil)
	} else {
		text := strings.Join(cli.Args(), " ")
		if text == "" {
			fmt.Fprintln(os.Stderr, "usage: jarvisctl [--listen] <command text>")
			os.Exit(2)
		}
		body, _ := json.Marshal(map[string]string{"text": text})
		resp, err = client.Post(*addr+"/v1/messages", "application/json", bytes.NewReader(body))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "daemon not running:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read response:", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "daemon returned %s: %s\n", resp.Status, raw)
		os.Exit(1)
	}

	var body struct {
		Transcript string `json:"transcript"`
		Reply      struct {
			Text string `json:"text"`
		} `json:"reply"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		fmt.Fprintln(os.Stderr, "unexpected response:", string(raw))
		os.Exit(1)
	}

	if body.Transcript != "" {
		fmt.Println("YOU:", body.Transcript)
	}
	fmt.Println("JARVIS:", body.Reply.Text)
}
