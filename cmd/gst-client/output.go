package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wildhunter-66/gstd-1.x/message"
)

func printResponse(resp *message.Response) error {
	if resp.Null() {
		fmt.Println("null")
		return nil
	}
	out, err := json.MarshalIndent(resp.Response, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

func printNodes(nodes []message.Node) {
	for _, n := range nodes {
		fmt.Println(n.Name)
	}
}
