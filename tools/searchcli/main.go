package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/afero"

	"github.com/yeppakhon/WWDC-search/config"
	"github.com/yeppakhon/WWDC-search/internal/kvstore"
	"github.com/yeppakhon/WWDC-search/models"
	"github.com/yeppakhon/WWDC-search/services/browse"
	"github.com/yeppakhon/WWDC-search/services/corpus"
	"github.com/yeppakhon/WWDC-search/services/history"
	"github.com/yeppakhon/WWDC-search/services/search"
)

// searchcli runs subtitle searches against the local corpus without the HTTP
// server: query text as positional args, optional year filter, result copy to
// the system clipboard.
func main() {
	var (
		configPath   = flag.String("config", "cache/settings.json", "Path to settings.json")
		year         = flag.Int("year", 0, "Restrict results to one conference year (0 = all)")
		copyResult   = flag.Bool("copy", false, "Copy the matched subtitle lines to the clipboard")
		clearHistory = flag.Bool("clear-history", false, "Clear the stored search history and exit")
		showHistory  = flag.Bool("history", false, "Print the stored search history and exit")
	)
	flag.Parse()

	mgr := config.NewManager(*configPath)
	settings, err := mgr.Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	osFS := afero.NewOsFs()

	store, err := kvstore.NewFileStore(osFS, settings.Storage.Directory)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	historyService := history.NewService(store)

	if *clearHistory {
		cleared := historyService.Clear(confirmOnTerminal)
		if cleared {
			fmt.Println("search history cleared")
		} else {
			fmt.Println("search history kept")
		}
		return
	}

	if *showHistory {
		entries := historyService.List()
		if len(entries) == 0 {
			fmt.Println("search history is empty")
			return
		}
		for i, q := range entries {
			fmt.Printf("%2d. %s\n", i+1, q)
		}
		return
	}

	corpusService, err := corpus.NewService(osFS, settings.Corpus.Path)
	if err != nil {
		log.Fatalf("load corpus: %v", err)
	}

	browseService := browse.NewService(search.NewEngine(corpusService), historyService)

	queryText := strings.Join(flag.Args(), " ")
	req := models.SearchRequest{QueryText: queryText}
	if *year > 0 {
		req.Year = year
	}

	outcome := browseService.Search(req)
	if outcome.Prompt != "" {
		fmt.Println(outcome.Prompt)
		return
	}

	fmt.Println(outcome.Stats)
	for _, m := range outcome.Results {
		fmt.Printf("[%d] %s (%s)  %s-%s\n    %s\n",
			m.VideoYear, m.VideoTitle, m.VideoSession, m.StartTime, m.EndTime, m.Text)
		if m.TextCN != "" {
			fmt.Printf("    %s\n", m.TextCN)
		}
	}

	if *copyResult && len(outcome.Results) > 0 {
		lines := make([]string, 0, len(outcome.Results))
		for _, m := range outcome.Results {
			lines = append(lines, m.Text)
		}
		if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
			log.Printf("clipboard copy failed: %v", err)
		} else {
			fmt.Printf("copied %d line(s) to clipboard\n", len(lines))
		}
	}
}

// confirmOnTerminal asks a yes/no question on stdin.
func confirmOnTerminal(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
