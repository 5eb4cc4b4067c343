// Command nqpv-report-chart renders the HTML chart for a JSON summary
// previously written by nqpv-verify -json, separating the run-producing
// step from the plotting step the way Additionnals/plot_pacs_sweep.go reads
// a persisted sweep file rather than re-running the sweep itself.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/blang/semver/v4"

	"nqpv/report"
)

var version = semver.MustParse("0.1.0")

func main() {
	out := flag.String("out", "report.html", "HTML chart output path")
	showVersion := flag.Bool("version", false, "print the tool version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() != 1 {
		log.Fatal("usage: nqpv-report-chart [flags] <summary.json>")
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var summary report.Summary
	if err := json.NewDecoder(f).Decode(&summary); err != nil {
		log.Fatal(err)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer outFile.Close()

	if err := report.WriteChart(outFile, summary); err != nil {
		log.Fatal(err)
	}
}
