// Genome preview tool - runs one genome headless and writes its
// trajectory as grayscale PNG frames plus a CSV of the mass and
// centroid history.
//
// Usage: go run ./cmd/preview -genome "R=13;T=10;m=0.15;s=0.017;b=1;kn=1;gn=1" -out preview
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/PhantasticUniverse/genesis/fitness"
	"github.com/PhantasticUniverse/genesis/genome"
	"github.com/PhantasticUniverse/genesis/lenia"
)

// trajectoryRow is one CSV row of the recorded history.
type trajectoryRow struct {
	Step      int     `csv:"step"`
	Mass      float64 `csv:"mass"`
	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`
}

func main() {
	genomeStr := flag.String("genome", "", "Encoded genome string (empty = classic default)")
	width := flag.Int("width", 64, "Grid width in cells")
	height := flag.Int("height", 64, "Grid height in cells")
	steps := flag.Int("steps", 300, "Simulation steps")
	sampleEvery := flag.Int("sample-every", 10, "Write a frame every N steps")
	seed := flag.Int64("seed", 42, "Seed for the initial patch")
	outputDir := flag.String("out", "preview", "Output directory")
	flag.Parse()

	g := genome.Default()
	if *genomeStr != "" {
		var err error
		g, err = genome.Decode(*genomeStr)
		if err != nil {
			log.Fatalf("bad genome: %v", err)
		}
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	sim, err := lenia.NewSimulator(g, *width, *height)
	if err != nil {
		log.Fatalf("failed to build simulator: %v", err)
	}
	sim.SeedPatch(rand.New(rand.NewSource(*seed)))

	fmt.Printf("Simulating %s on %dx%d for %d steps (seed %d)\n",
		g.Encode(), *width, *height, *steps, *seed)

	tr := sim.Run(*steps, *sampleEvery)

	// Sampled frames, named by the step they capture
	for i, frame := range tr.Frames {
		step := (i + 1) * *sampleEvery
		path := filepath.Join(*outputDir, fmt.Sprintf("frame_%05d.png", step))
		if err := writePNG(path, frame, *width, *height); err != nil {
			log.Fatalf("failed to write frame: %v", err)
		}
	}
	finalPath := filepath.Join(*outputDir, "final.png")
	if err := writePNG(finalPath, tr.Final, *width, *height); err != nil {
		log.Fatalf("failed to write final frame: %v", err)
	}

	// Trajectory CSV
	rows := make([]trajectoryRow, len(tr.MassHistory))
	for i := range rows {
		rows[i] = trajectoryRow{
			Step:      i,
			Mass:      tr.MassHistory[i],
			CentroidX: tr.CentroidHistory[i].X,
			CentroidY: tr.CentroidHistory[i].Y,
		}
	}
	csvPath := filepath.Join(*outputDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		log.Fatalf("failed to create trajectory.csv: %v", err)
	}
	if err := gocsv.Marshal(rows, csvFile); err != nil {
		csvFile.Close()
		log.Fatalf("failed to write trajectory.csv: %v", err)
	}
	if err := csvFile.Close(); err != nil {
		log.Fatalf("failed to close trajectory.csv: %v", err)
	}

	// Score the run the same way the discovery engine would
	score, behavior, err := fitness.NewEvaluator().Evaluate(tr)
	if err != nil {
		log.Fatalf("failed to score trajectory: %v", err)
	}

	fmt.Printf("Lifespan: %d/%d steps\n", tr.Lifespan, *steps)
	fmt.Printf("Fitness: %.4f (survival=%.2f stability=%.2f complexity=%.2f symmetry=%.2f movement=%.2f)\n",
		score.Overall, score.Survival, score.Stability, score.Complexity, score.Symmetry, score.Movement)
	fmt.Printf("Behavior: mass=%.1f var=%.1f speed=%.3f entropy=%.2f box=%.0f lifespan=%.0f\n",
		behavior.AvgMass, behavior.MassVariance, behavior.AvgSpeed,
		behavior.AvgEntropy, behavior.BoundingSize, behavior.Lifespan)
	fmt.Printf("Wrote %d frames and %s\n", len(tr.Frames)+1, csvPath)
}

// writePNG renders a [0,1] field as an 8-bit grayscale image.
func writePNG(path string, cells []float64, w, h int) error {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range cells {
		img.Pix[i] = uint8(v*255 + 0.5)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
