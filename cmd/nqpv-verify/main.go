// Command nqpv-verify runs the quantum-program WLP verifier over a single
// module file, writing a text report next to it (spec.md §6). Flag shape
// and log.Fatal-on-setup-error style follow cmd/ntru_sign/main.go.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/blang/semver/v4"

	"nqpv/driver"
	"nqpv/report"
	"nqpv/settings"
)

var version = semver.MustParse("0.1.0")

func main() {
	out := flag.String("out", "", "report output path (default: output.txt in the input's directory)")
	chart := flag.String("chart", "", "optional HTML chart output path")
	jsonOut := flag.String("json", "", "optional persisted JSON summary path, for cmd/nqpv-report-chart")
	eps := flag.Float64("eps", settings.Default().EPS, "EPS tolerance")
	sdpPrecision := flag.Float64("sdp-precision", settings.Default().SDPPrecision, "SDP feasibility precision")
	silent := flag.Bool("silent", false, "SILENT setting (stored in the settings; no output depends on it)")
	identicalVarCheck := flag.Bool("identical-var-check", false, "collapse duplicate Qpre pairs within EPS")
	optPreserving := flag.Bool("opt-preserving", false, "OPT_PRESERVING setting (stored in the settings; no output depends on it)")
	showVersion := flag.Bool("version", false, "print the verifier version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() != 1 {
		log.Fatal("usage: nqpv-verify [flags] <module.nqpv>")
	}
	modulePath := flag.Arg(0)

	cfg, err := settings.New(settings.Settings{
		EPS:               *eps,
		SDPPrecision:      *sdpPrecision,
		Silent:            *silent,
		IdenticalVarCheck: *identicalVarCheck,
		OptPreserving:     *optPreserving,
	})
	if err != nil {
		log.Fatal(err)
	}

	rep, err := driver.Verify(modulePath, cfg)
	if err != nil {
		log.Fatal(err)
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(modulePath), "output.txt")
	}
	f, err := os.Create(outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := report.WriteText(f, rep); err != nil {
		log.Fatal(err)
	}

	summary := report.Summarize(rep)

	if *jsonOut != "" {
		jf, err := os.Create(*jsonOut)
		if err != nil {
			log.Fatal(err)
		}
		defer jf.Close()
		if err := json.NewEncoder(jf).Encode(summary); err != nil {
			log.Fatal(err)
		}
	}

	if *chart != "" {
		cf, err := os.Create(*chart)
		if err != nil {
			log.Fatal(err)
		}
		defer cf.Close()
		if err := report.WriteChart(cf, summary); err != nil {
			log.Fatal(err)
		}
	}

	if !rep.Holds() {
		os.Exit(1)
	}
}
