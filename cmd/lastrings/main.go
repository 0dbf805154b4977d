// Command lastrings prints the printable-text runs found in one or
// more files, choosing a character encoding automatically unless one
// is forced with -t, and optionally identifying the natural language
// of each extracted string.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/tripleee/lastrings"
	"github.com/tripleee/lastrings/langid"
)

// fileStream adapts an *os.File to lastrings.InputStream.
type fileStream struct {
	r      *bufio.Reader
	offset int64
	atEnd  bool
}

func newFileStream(f *os.File) *fileStream {
	return &fileStream{r: bufio.NewReaderSize(f, 64*1024)}
}

func (s *fileStream) AtEnd() bool   { return s.atEnd }
func (s *fileStream) Offset() int64 { return s.offset }

func (s *fileStream) Get(dst []byte) (int, error) {
	n, err := s.r.Read(dst)
	s.offset += int64(n)
	if err != nil {
		s.atEnd = true
		if n == 0 {
			return 0, nil
		}
	}
	return n, nil
}

func main() {
	minLen := flag.Int("n", 4, "minimum string length to print")
	encoding := flag.String("t", "", "force a specific encoding name instead of auto-detecting")
	showEncoding := flag.Bool("e", false, "show the winning decoder name for each string")
	showOffset := flag.String("o", "", "show each string's byte offset in the given radix: d, o, or x")
	identifyLanguage := flag.Bool("L", false, "identify and report the natural language of each string")
	modelPath := flag.String("m", "", "path to a language-identification model file (required with -L)")
	minScore := flag.Float64("s", 0, "minimum confidence score (0-99.999) required to print a string")
	allowNewlines := flag.Bool("newline", false, "allow embedded CR/LF within a single emitted string")
	romanize := flag.Bool("romanize", false, "request romanized output (no transliteration table is built in, so text is written unchanged)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lastrings [flags] [file...]\n\n")
		fmt.Fprintf(os.Stderr, "Print the printable character sequences found in each file, one per line,\n")
		fmt.Fprintf(os.Stderr, "with the encoding chosen by automatic detection unless -t forces one.\n")
		fmt.Fprintf(os.Stderr, "With no files, reads standard input.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	params := lastrings.DefaultParameters()
	params.MinStringLength = *minLen
	params.Encoding = *encoding
	params.ShowEncoding = *showEncoding
	params.MinScore = *minScore
	params.NewlinesAllowed = *allowNewlines
	params.RomanizeOutput = *romanize
	params.IdentifyLanguage = *identifyLanguage

	switch *showOffset {
	case "":
		params.ShowLocationRadix = 0
	case "d":
		params.ShowLocationRadix = 10
	case "o":
		params.ShowLocationRadix = 8
	case "x":
		params.ShowLocationRadix = 16
	default:
		fmt.Fprintf(os.Stderr, "lastrings: -o must be d, o, or x\n")
		os.Exit(2)
	}

	if *identifyLanguage {
		if *modelPath == "" {
			fmt.Fprintf(os.Stderr, "lastrings: -L requires -m <model-file>\n")
			os.Exit(2)
		}
		model, err := langid.OpenModel(*modelPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lastrings: loading model: %v\n", err)
			os.Exit(1)
		}
		defer model.Close()
		params.Model = model
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	exitCode := 0
	for _, path := range paths {
		if err := scanPath(path, params, out); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
		}
	}
	out.Flush()
	os.Exit(exitCode)
}

func scanPath(path string, params lastrings.ExtractionParameters, out *bufio.Writer) error {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
	}

	showName := path
	params.OnOutput = func(r lastrings.Result) error {
		writeResult(out, showName, r, params)
		return nil
	}

	return lastrings.Extract(newFileStream(f), params)
}

func writeResult(out *bufio.Writer, path string, r lastrings.Result, params lastrings.ExtractionParameters) {
	if params.ShowFilename {
		fmt.Fprintf(out, "%s: ", path)
	}
	if params.ShowLocationRadix != 0 {
		switch params.ShowLocationRadix {
		case 8:
			fmt.Fprintf(out, "%7o ", r.Offset)
		case 16:
			fmt.Fprintf(out, "%7x ", r.Offset)
		default:
			fmt.Fprintf(out, "%7d ", r.Offset)
		}
	}
	if params.ShowEncoding {
		fmt.Fprintf(out, "[%s] ", r.Decoder)
	}
	if params.ShowConfidence {
		fmt.Fprintf(out, "(%.1f) ", r.Confidence)
	}
	out.Write(r.Text)
	if len(r.Languages) > 0 && params.IdentifyLanguage {
		fmt.Fprintf(out, " {lang=%d}", r.Languages[0].LanguageID)
	}
	out.WriteByte('\n')
}
