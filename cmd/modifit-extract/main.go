// Command modifit-extract runs the exercise extractor on a file or stdin and
// prints the result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/modifit/platform/internal/extract"
)

func main() {
	sourceOnly := flag.Bool("source", false, "print only the name of the strategy that matched")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modifit-extract [-source] [file]\n\nReads stdin when no file is given.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var in io.Reader = os.Stdin
	if path := flag.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "modifit-extract: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "modifit-extract: reading input: %v\n", err)
		os.Exit(1)
	}

	res := extract.Extract(string(data))
	if *sourceOnly {
		fmt.Println(res.Source)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "modifit-extract: %v\n", err)
		os.Exit(1)
	}
}
