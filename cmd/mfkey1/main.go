// The mfkey1 command recovers MIFARE Classic Crypto-1 keys from a captured
// nested-auth trace (a "nested.log"-style file of "Sec ... dist 0" lines).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ericlagergren/mfkey1/keyrecovery"
	"github.com/ericlagergren/mfkey1/tracefile"
)

func main() {
	flag.Usage = usage
	out := flag.String("o", "found_keys.txt", "output file for recovered keys")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputFile := flag.Arg(0)
	outputFile := *out
	if flag.NArg() > 1 {
		outputFile = flag.Arg(1)
	}

	fmt.Println("MIFARE Classic Key Recovery Tool")
	fmt.Println(separator)
	fmt.Printf("Input file:  %s\n", inputFile)
	fmt.Printf("Output file: %s\n", outputFile)
	fmt.Println(separator)
	fmt.Println()

	in, err := os.Open(inputFile)
	if err != nil {
		log.Fatalf("failed to open input file: %s", err)
	}
	records, err := tracefile.Parse(in)
	in.Close()
	if err != nil {
		log.Fatalf("failed to read input file: %s", err)
	}
	if len(records) == 0 {
		fmt.Println("Failed to load nonces from file!")
		os.Exit(1)
	}
	fmt.Printf("Total nonces loaded: %d\n\n", len(records))

	var cancel keyrecovery.CancelFlag
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		if _, ok := <-sig; ok {
			fmt.Println("\n\nReceived interrupt signal. Stopping attack gracefully...")
			cancel.Set()
		}
	}()

	fmt.Println("Starting key recovery... (Press Ctrl+C to stop gracefully.)")
	fmt.Println()

	driver := keyrecovery.Driver{
		Cancel:   &cancel,
		Progress: printProgress,
	}
	keys := driver.Run(records)
	signal.Stop(sig)
	close(sig)

	fmt.Println()
	fmt.Println("Key recovery completed!")
	fmt.Printf("Total unique keys found: %d\n\n", keys.Len())

	if keys.Len() == 0 {
		fmt.Println("No keys found to save.")
		os.Exit(0)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		log.Fatalf("failed to create output file: %s", err)
	}
	defer f.Close()
	if err := tracefile.WriteKeys(f, keys.Keys()); err != nil {
		log.Fatalf("failed to write output file: %s", err)
	}
	fmt.Printf("Keys saved to %s\n", outputFile)
}

const separator = "================================================================================"

func printProgress(nonceIndex, nonceTotal, msbRound, msbTotal int, innerFraction float64) {
	noncePct := float64(nonceIndex+1) / float64(nonceTotal) * 100
	msbPct := float64(msbRound) / float64(msbTotal) * 100
	fmt.Printf("\rProgress: Nonce %d/%d (%.1f%%) | MSB %d/%d (%.1f%%) | Current %.1f%%",
		nonceIndex+1, nonceTotal, noncePct, msbRound, msbTotal, msbPct, innerFraction*100)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <nested.log file> [output_keys.txt]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  nested.log file: Input file containing nested attack nonces\n")
	fmt.Fprintf(os.Stderr, "  output_keys.txt: Optional output file for found keys (default: found_keys.txt)\n")
	fmt.Fprintf(os.Stderr, "\nExample: %s /path/to/.nested.log keys.txt\n", os.Args[0])
}
