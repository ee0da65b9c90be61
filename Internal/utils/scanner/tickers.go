package scanner

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// LoadTickersFromFile reads one ticker symbol per line, skipping blank lines
// and #-comments.
func LoadTickersFromFile(filepath string) ([]string, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open tickers file: %w", err)
	}
	defer f.Close()

	var tickers []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, strings.ToUpper(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tickers file: %w", err)
	}

	log.Printf("Loaded %d tickers from %s", len(tickers), filepath)
	return tickers, nil
}
