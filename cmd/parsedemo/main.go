package main

// Structure a résumé file (or stdin) with the heuristic engine:
//   go run ./cmd/parsedemo -in resume.pdf
//   cat resume.txt | go run ./cmd/parsedemo

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"resume-manager/internal/extract"
	"resume-manager/resume/parse"
)

func main() {
	inPath := flag.String("in", "", "input file (pdf, docx, or plain text); reads stdin when empty")
	flag.Parse()

	text, err := loadInput(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	engine := parse.NewDefaultEngine()
	result := engine.Parse(text)

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(payload))
}

func loadInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return extract.ExtractTextFromBytes(context.Background(), data, http.DetectContentType(data), path)
}
