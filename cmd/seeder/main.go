package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/neuroq"
	"github.com/poiesic/neuroq/ingestion"
)

// A small built-in corpus used when no dump files are given. One database row
// per reported peak, coordinates in MNI space, weights in the range the real
// tfidf exports carry.
var demoDatabase = [][]string{
	{"id", "x", "y", "z", "title", "authors", "year", "journal"},
	{"9862924", "-22", "-4", "-18", "Masked presentations of emotional facial expressions modulate amygdala activity", "Whalen PJ, Rauch SL, Etcoff NL", "1998", "J Neurosci"},
	{"9862924", "24", "-2", "-16", "Masked presentations of emotional facial expressions modulate amygdala activity", "Whalen PJ, Rauch SL, Etcoff NL", "1998", "J Neurosci"},
	{"9252330", "2", "24", "34", "Pain affect encoded in human anterior cingulate but not somatosensory cortex", "Rainville P, Duncan GH, Price DD", "1997", "Science"},
	{"10195184", "38", "16", "2", "Dissociating pain from its anticipation in the human brain", "Ploghaus A, Tracey I, Gati JS", "1999", "Science"},
	{"10195184", "-36", "14", "4", "Dissociating pain from its anticipation in the human brain", "Ploghaus A, Tracey I, Gati JS", "1999", "Science"},
	{"10220216", "-44", "20", "28", "Storage and executive processes in the frontal lobes", "Smith EE, Jonides J", "1999", "Science"},
	{"10220216", "46", "28", "24", "Storage and executive processes in the frontal lobes", "Smith EE, Jonides J", "1999", "Science"},
	{"9151747", "40", "-52", "-18", "The fusiform face area: a module in human extrastriate cortex", "Kanwisher N, McDermott J, Chun MM", "1997", "J Neurosci"},
	{"9151747", "-38", "-56", "-20", "The fusiform face area: a module in human extrastriate cortex", "Kanwisher N, McDermott J, Chun MM", "1997", "J Neurosci"},
	{"11406507", "10", "10", "-6", "Dissociation of reward anticipation and outcome with event-related fMRI", "Knutson B, Fong GW, Adams CM", "2001", "Neuroreport"},
	{"11406507", "2", "46", "-8", "Dissociation of reward anticipation and outcome with event-related fMRI", "Knutson B, Fong GW, Adams CM", "2001", "Neuroreport"},
	{"12377157", "-38", "-52", "44", "Neural correlates of verbal working memory load in parietal cortex", "Braver TS, Cohen JD", "2002", "NeuroImage"},
	{"12725762", "2", "22", "40", "Does rejection hurt? An fMRI study of social exclusion", "Eisenberger NI, Lieberman MD, Williams KD", "2003", "Science"},
	{"14614102", "-48", "20", "16", "Cortical dynamics of sentence comprehension in the left hemisphere", "Friederici AD, Kotz SA", "2003", "Hum Brain Mapp"},
	{"14614102", "-56", "-12", "-4", "Cortical dynamics of sentence comprehension in the left hemisphere", "Friederici AD, Kotz SA", "2003", "Hum Brain Mapp"},
	{"15217330", "-38", "-24", "58", "Movement-related activity in human primary motor cortex", "Graziano MS, Taylor CS", "2004", "J Neurophysiol"},
	{"16242399", "-26", "-20", "-14", "Hippocampal contributions to episodic encoding", "Davachi L, Wagner AD", "2005", "Hippocampus"},
}

var demoFeatures = [][]string{
	{"pmid", "emotion", "fear", "pain", "working_memory", "language", "motor", "reward", "face", "memory"},
	{"9862924", "0.214", "0.312", "0", "0", "0", "0", "0", "0.158", "0"},
	{"9252330", "0.054", "0", "0.287", "0", "0", "0", "0", "0", "0"},
	{"10195184", "0", "0.061", "0.243", "0", "0", "0", "0", "0", "0"},
	{"10220216", "0", "0", "0", "0.331", "0", "0", "0", "0", "0.041"},
	{"9151747", "0.047", "0", "0", "0", "0", "0", "0", "0.402", "0"},
	{"11406507", "0.036", "0", "0", "0", "0", "0", "0.376", "0", "0"},
	{"12377157", "0", "0", "0", "0.298", "0.043", "0", "0", "0", "0"},
	{"12725762", "0.147", "0", "0.112", "0", "0", "0", "0", "0", "0"},
	{"14614102", "0", "0", "0", "0", "0.354", "0", "0", "0", "0"},
	{"15217330", "0", "0", "0", "0", "0", "0.318", "0", "0", "0"},
	{"16242399", "0", "0", "0", "0.052", "0", "0", "0", "0", "0.289"},
}

var (
	dbPath       = flag.String("db", "./corpus_db", "corpus database directory")
	databaseFile = flag.String("database", "", "study metadata dump (tab separated, optionally gzipped)")
	featuresFile = flag.String("features", "", "term weight dump (tab separated, optionally gzipped)")
	batchSize    = flag.Int("batch-size", 0, "rows per storage batch (0 uses the pipeline default)")
	workers      = flag.Int("workers", 0, "ingestion workers (0 uses the pipeline default)")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// writeDemoDump writes rows to a tab separated file under dir.
func writeDemoDump(dir, name string, rows [][]string) (string, error) {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func main() {
	db, err := neuroq.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	var opts []ingestion.Option
	if *batchSize > 0 {
		opts = append(opts, ingestion.WithBatchSize(*batchSize))
	}
	if *workers > 0 {
		opts = append(opts, ingestion.WithPoolSize(*workers))
	}

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	// Fall back to the built-in demo corpus for any dump not named on the
	// command line
	database, features := *databaseFile, *featuresFile
	if database == "" || features == "" {
		dir, err := os.MkdirTemp("", "neuroq-seed-*")
		if err != nil {
			panic(err)
		}
		defer os.RemoveAll(dir)

		if database == "" {
			if database, err = writeDemoDump(dir, "database.txt", demoDatabase); err != nil {
				panic(err)
			}
		}
		if features == "" {
			if features, err = writeDemoDump(dir, "features.txt", demoFeatures); err != nil {
				panic(err)
			}
		}
	}

	summary, err := pipeline.Run(ctx, database, features)
	if err != nil {
		panic(err)
	}

	slog.Info("corpus seeded",
		"studies", summary.Studies,
		"peaks", summary.Peaks,
		"annotations", summary.Annotations,
		"elapsed", summary.Elapsed)
}
