package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fracnet/internal/models"
	"fracnet/pkg/config"
	"fracnet/pkg/digitise"
	"fracnet/pkg/geojson"
	"fracnet/pkg/geometry"
	"fracnet/pkg/raster"
	"fracnet/pkg/render"
	"fracnet/pkg/threshold"
	"fracnet/pkg/txt"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Input raster image (png, jpeg, gif, tiff or bmp)")
	worldPath := flag.String("world", "", "Optional ESRI world file with the pixel-to-map transform")
	configPath := flag.String("config", "fracnet.yaml", "Configuration file")
	outputPath := flag.String("output", "network.txt", "Output network file (.txt or .geojson)")
	pngPath := flag.String("png", "", "Optional PNG view export of the digitised network")
	crsLabel := flag.String("crs", "", "CRS label to assign to the digitised network")
	method := flag.String("method", "", "Threshold method override: otsu, adaptive or percentile")
	invert := flag.Bool("invert", false, "Invert the grayscale image before thresholding")
	simplify := flag.Float64("simplify", -1, "Simplify tolerance override (map units)")
	minLength := flag.Float64("min-length", -1, "Minimum branch length override (map units)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	thresholdOpts := cfg.ThresholdOptions()
	digitiseOpts := cfg.DigitiseOptions()
	if *method != "" {
		thresholdOpts.Method = threshold.Method(*method)
	}
	if *invert {
		thresholdOpts.Invert = true
	}
	if *simplify >= 0 {
		digitiseOpts.SimplifyTolerance = *simplify
	}
	if *minLength >= 0 {
		digitiseOpts.MinBranchLength = *minLength
	}

	fmt.Println("================================")
	fmt.Println("FRACNET - RASTER TO VECTOR FRACTURE NETWORK DIGITISING")
	fmt.Println("================================")
	startTime := time.Now()

	// Step 1: Load the raster
	fmt.Println("Step 1: Loading input raster...")
	array, err := raster.Load(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load raster: %v", err)
	}

	transform := geometry.Identity()
	if *worldPath != "" {
		transform, err = raster.LoadWorldFile(*worldPath)
		if err != nil {
			log.Fatalf("Failed to load world file: %v", err)
		}
	}

	// Step 2: Threshold into a binary fracture mask
	fmt.Printf("Step 2: Thresholding (%s)...\n", thresholdOpts.Method)
	mask, err := threshold.Apply(array, thresholdOpts)
	if err != nil {
		log.Fatalf("Thresholding failed: %v", err)
	}
	if cfg.Output.Verbose {
		fmt.Printf("Mask: %dx%d, %d foreground pixels\n", mask.Cols, mask.Rows, mask.Sum())
	}

	// Step 3: Digitise the mask into a fracture network
	fmt.Println("Step 3: Digitising fracture network...")
	digitiser := digitise.New(transform, digitiseOpts)
	network, err := digitiser.Digitise(mask)
	if err != nil {
		log.Fatalf("Digitising failed: %v", err)
	}
	if *crsLabel != "" {
		network.CRS = *crsLabel
	}
	if network.Len() == 0 {
		fmt.Println("Warning: No fracture lines were traced from the raster")
	}

	// Step 4: Write the network file
	fmt.Printf("Step 4: Writing %s...\n", *outputPath)
	switch detectFormat(*outputPath) {
	case "geojson":
		err = geojson.Write(network, *outputPath)
	default:
		err = txt.Write(network, *outputPath, nil)
	}
	if err != nil {
		log.Fatalf("Failed to write network: %v", err)
	}

	// Step 5: Optional PNG view export
	if *pngPath != "" {
		fmt.Printf("Step 5: Rendering view to %s...\n", *pngPath)
		opts := render.DefaultOptions()
		opts.Width = cfg.Render.Width
		opts.Height = cfg.Render.Height
		opts.ShowGrid = cfg.Render.ShowGrid
		opts.ShowScaleBar = cfg.Render.ShowScaleBar
		opts.GridSpacing = cfg.Render.GridSpacing
		opts.ScaleBarLength = cfg.Render.ScaleBarLength

		label := strings.TrimSuffix(filepath.Base(*inputPath), filepath.Ext(*inputPath))
		layer := models.NewLayer(network, label, models.Style{Color: render.PaletteColor(0), Width: 2})
		if err := render.NewRenderer(opts).SavePNG([]*models.Layer{layer}, *pngPath); err != nil {
			log.Printf("Warning: Failed to render view: %v", err)
		}
	}

	fmt.Printf("\nDigitising completed in %.2f seconds!\n", time.Since(startTime).Seconds())
	fmt.Printf("Fracture lines: %d\n", network.Len())
	fmt.Printf("Total length: %.3f\n", network.TotalLength())
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return "geojson"
	default:
		return "txt"
	}
}
