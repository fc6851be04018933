package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/pbanos/arboretum"
	"github.com/pbanos/arboretum/frame"
	"github.com/pbanos/arboretum/frame/yaml"
	"github.com/pbanos/arboretum/pretree"
	treejson "github.com/pbanos/arboretum/pretree/json"
	"github.com/pbanos/arboretum/pretree/redisstore"
	"github.com/pbanos/arboretum/sample"
	"github.com/pbanos/arboretum/sample/csv"
	"github.com/pbanos/arboretum/sample/sqlsample"
	"github.com/pbanos/arboretum/sample/sqlsample/pgadapter"
	"github.com/pbanos/arboretum/sample/sqlsample/sqlite3adapter"
	"github.com/spf13/cobra"
	"gopkg.in/redis.v5"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	output        string
	response      string
	table         string
	maxDBConns    int
	noBag         bool
	levels        int
	minNode       int
	minRatio      float64
	maxLeaf       int
	predFixed     int
	predProb      float64
	splitQuant    float64
	maxWidth      int
	flushFrac     float64
	workers       int
	seed          int64
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a training matrix",
		Long:  `Grow a decision tree from a training matrix to predict a certain column.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			columns, err := yaml.ReadColumnsFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			matrix, err := config.trainingMatrix(columns)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			f, predictors, err := matrix.PredictorFrame(config.response)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			s, err := matrix.ResponseSet(config.response, config.bag(matrix.NRows()))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Growing tree from a matrix with %d rows and %d predictors to predict %s ...", matrix.NRows(), f.NPred(), config.response)
			t, err := arboretum.Grow(ctx, f, s, config.growConfig(f))
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Done")
			config.Logf("%v", t)
			err = config.outputTree(ctx, t, predictors)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL with the training matrix (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file or a redis URL to which the grown tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.response), "response", "c", "", "name of the column the grown tree should predict (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "name of the DB table holding the training matrix")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	cmd.PersistentFlags().BoolVar(&(config.noBag), "no-bag", false, "use every row exactly once instead of bootstrap sampling")
	cmd.PersistentFlags().IntVar(&(config.levels), "levels", 0, "limit to the number of levels grown (defaults to 0: no limit)")
	cmd.PersistentFlags().IntVar(&(config.minNode), "min-node", 2, "smallest node to try to split")
	cmd.PersistentFlags().Float64Var(&(config.minRatio), "min-ratio", 0, "ratio of a split's information its children must beat to split again")
	cmd.PersistentFlags().IntVar(&(config.maxLeaf), "max-leaf", 0, "limit to the number of leaves, merging the least informative splits back (defaults to 0: no limit)")
	cmd.PersistentFlags().IntVar(&(config.predFixed), "pred-fixed", 0, "number of predictors to try per node (defaults to 0: all of them)")
	cmd.PersistentFlags().Float64Var(&(config.predProb), "pred-prob", 0, "probability with which each predictor is tried per node (defaults to 0: all of them)")
	cmd.PersistentFlags().Float64Var(&(config.splitQuant), "split-quant", 0, "quantile interpolating the splitting value between the values flanking a cut (defaults to 0: 0.5)")
	cmd.PersistentFlags().IntVar(&(config.maxWidth), "max-width", 0, "limit to the categorical run count searched exhaustively")
	cmd.PersistentFlags().Float64Var(&(config.flushFrac), "flush-frac", 0, "fraction of backlogged observation layers restaged forward per level")
	cmd.PersistentFlags().IntVar(&(config.workers), "workers", 0, "limit to goroutines restaging and splitting at a time (defaults to 0: one per CPU)")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random stream bagging rows and drawing predictors")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.response == "" {
		return fmt.Errorf("required response flag was not set")
	}
	if gcc.predFixed > 0 && gcc.predProb > 0 {
		return fmt.Errorf("cannot set both pred-fixed and pred-prob flags at the same time")
	}
	return nil
}

func (gcc *growCmdConfig) trainingMatrix(columns []frame.ColumnSpec) (*sample.Matrix, error) {
	if gcc.dataInput == "" {
		gcc.Logf("Reading training matrix from STDIN...")
		return csv.ReadMatrixFromFilePath("", columns)
	}
	if strings.HasPrefix(gcc.dataInput, "postgresql://") {
		return gcc.postgreSQLTrainingMatrix(columns)
	}
	if strings.HasSuffix(gcc.dataInput, ".db") {
		return gcc.sqlite3TrainingMatrix(columns)
	}
	gcc.Logf("Opening %s to read training matrix...", gcc.dataInput)
	return csv.ReadMatrixFromFilePath(gcc.dataInput, columns)
}

func (gcc *growCmdConfig) sqlite3TrainingMatrix(columns []frame.ColumnSpec) (*sample.Matrix, error) {
	gcc.Logf("Creating SQLite3 adapter for file %s to read training matrix...", gcc.dataInput)
	adapter, err := sqlite3adapter.New(gcc.dataInput, gcc.maxDBConns)
	if err != nil {
		return nil, err
	}
	gcc.Logf("Reading training matrix over SQLite3 adapter for file %s...", gcc.dataInput)
	return sqlsample.ReadMatrix(adapter, gcc.table, columns)
}

func (gcc *growCmdConfig) postgreSQLTrainingMatrix(columns []frame.ColumnSpec) (*sample.Matrix, error) {
	gcc.Logf("Creating PostgreSQL adapter for url %s to read training matrix...", gcc.dataInput)
	adapter, err := pgadapter.New(gcc.dataInput, gcc.maxDBConns)
	if err != nil {
		return nil, err
	}
	gcc.Logf("Reading training matrix over PostgreSQL adapter for url %s...", gcc.dataInput)
	return sqlsample.ReadMatrix(adapter, gcc.table, columns)
}

func (gcc *growCmdConfig) bag(nRows int) []int {
	if gcc.noBag {
		counts := make([]int, nRows)
		for i := range counts {
			counts[i] = 1
		}
		return counts
	}
	return sample.Bag(nRows, rand.New(rand.NewSource(gcc.seed)))
}

func (gcc *growCmdConfig) growConfig(f *frame.Frame) arboretum.Config {
	var predProb []float64
	if gcc.predProb > 0 {
		predProb = make([]float64, f.NPred())
		for i := range predProb {
			predProb[i] = gcc.predProb
		}
	}
	return arboretum.Config{
		NLevels:    gcc.levels,
		MinNode:    gcc.minNode,
		MinRatio:   gcc.minRatio,
		MaxLeaf:    gcc.maxLeaf,
		PredFixed:  gcc.predFixed,
		PredProb:   predProb,
		SplitQuant: gcc.splitQuant,
		MaxWidth:   gcc.maxWidth,
		FlushFrac:  gcc.flushFrac,
		Workers:    gcc.workers,
		Seed:       gcc.seed,
	}
}

func (gcc *growCmdConfig) outputTree(ctx context.Context, t *pretree.PreTree, predictors []frame.ColumnSpec) error {
	if strings.HasPrefix(gcc.output, "redis://") {
		return gcc.redisOutputTree(ctx, t, predictors)
	}
	var f *os.File
	var err error
	if gcc.output == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(gcc.output)
		if err != nil {
			return err
		}
	}
	defer f.Close()
	return treejson.WriteTree(f, t, predictors, gcc.response)
}

func (gcc *growCmdConfig) redisOutputTree(ctx context.Context, t *pretree.PreTree, predictors []frame.ColumnSpec) error {
	opts, err := redis.ParseURL(gcc.output)
	if err != nil {
		return fmt.Errorf("parsing redis URL %s: %v", gcc.output, err)
	}
	gcc.Logf("Storing tree on redis at %s...", opts.Addr)
	store := redisstore.New(redis.NewClient(opts), "arboretum:trees")
	id, err := store.Create(ctx, t, predictors, gcc.response)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
