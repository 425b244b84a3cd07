package main

import (
	"flag"
	"log"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/config"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/extract"
)

func main() {
	cfg := config.Load()
	config.InitLogging()

	pdfPath := flag.String("pdf", cfg.PDFPath, "Timetable PDF to read")
	textPath := flag.String("output", cfg.TextPath, "Text file to write")
	flag.Parse()

	log.Printf("Extracting text from %s...", *pdfPath)
	text, err := extract.ExtractText(*pdfPath)
	if err != nil {
		log.Fatalf("Failed to extract text: %v", err)
	}

	if err := extract.WriteText(*textPath, text); err != nil {
		log.Fatalf("Failed to write text: %v", err)
	}

	log.Printf("Wrote %d bytes to %s", len(text), *textPath)
}
