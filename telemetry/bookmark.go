package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFitnessBreakthrough BookmarkType = "fitness_breakthrough"
	BookmarkNoveltyCollapse     BookmarkType = "novelty_collapse"
	BookmarkArchiveSurge        BookmarkType = "archive_surge"
	BookmarkLongevity           BookmarkType = "longevity"
)

// Bookmark marks a generation worth revisiting.
type Bookmark struct {
	Type        BookmarkType
	Generation  int
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector watches the stream of generation rows for notable
// moments: fitness breakthroughs, collapsing behavioral diversity, bursts
// of archive admissions, and individuals surviving the full simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	prevBest        float64
	prevArchiveSize int
	maxSimSteps     int // lifespan that counts as surviving the whole run
	longevitySeen   bool
}

// NewBookmarkDetector creates a detector. maxSimSteps is the simulation
// step budget per individual; a lifespan reaching it triggers the
// longevity bookmark once per run.
func NewBookmarkDetector(historySize, maxSimSteps int) *BookmarkDetector {
	if historySize < 4 {
		historySize = 4 // minimum for the diversity baseline
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
		maxSimSteps: maxSimSteps,
	}
}

// Check analyzes the latest row and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkFitnessBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkNoveltyCollapse(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkArchiveSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkLongevity(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.prevBest = stats.BestFitness
	bd.prevArchiveSize = stats.ArchiveSize

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkFitnessBreakthrough fires when the run best jumps by at least 20%
// over the previous best, on a non-trivial base.
func (bd *BookmarkDetector) checkFitnessBreakthrough(stats GenerationStats) *Bookmark {
	if bd.prevBest < 0.05 {
		return nil
	}
	if stats.BestFitness >= bd.prevBest*1.2 {
		return &Bookmark{
			Type:       BookmarkFitnessBreakthrough,
			Generation: stats.Generation,
			Description: fmt.Sprintf("Best fitness jumped %.3f -> %.3f (%.1fx)",
				bd.prevBest, stats.BestFitness, stats.BestFitness/bd.prevBest),
		}
	}
	return nil
}

// checkNoveltyCollapse fires when mean novelty falls below half the
// rolling average, signalling the population converging on one behavior.
func (bd *BookmarkDetector) checkNoveltyCollapse(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.NoveltyMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.NoveltyMean < avg*0.5 {
		return &Bookmark{
			Type:       BookmarkNoveltyCollapse,
			Generation: stats.Generation,
			Description: fmt.Sprintf("Mean novelty %.4f fell below half the rolling average %.4f",
				stats.NoveltyMean, avg),
		}
	}
	return nil
}

// checkArchiveSurge fires when the archive grows by 3+ members in one
// generation, a burst of genuinely new behaviors.
func (bd *BookmarkDetector) checkArchiveSurge(stats GenerationStats) *Bookmark {
	grown := stats.ArchiveSize - bd.prevArchiveSize
	if grown >= 3 {
		return &Bookmark{
			Type:       BookmarkArchiveSurge,
			Generation: stats.Generation,
			Description: fmt.Sprintf("Archive grew by %d members to %d",
				grown, stats.ArchiveSize),
		}
	}
	return nil
}

// checkLongevity fires once, the first time any individual survives the
// entire simulation budget.
func (bd *BookmarkDetector) checkLongevity(stats GenerationStats) *Bookmark {
	if bd.longevitySeen || bd.maxSimSteps <= 0 {
		return nil
	}
	if int(stats.MaxLifespan) >= bd.maxSimSteps {
		bd.longevitySeen = true
		return &Bookmark{
			Type:       BookmarkLongevity,
			Generation: stats.Generation,
			Description: fmt.Sprintf("First individual survived all %d steps",
				bd.maxSimSteps),
		}
	}
	return nil
}
