package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"peermall/internal/seed"
	"peermall/pkg/kvstore"
)

var (
	seedDevice string
	seedFile   string
)

// seedCmd 写入演示数据
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in sample data",
	Long: `Write sample inquiries and community posts when their tables are empty.

With --device, sample shops are also written into that device namespace;
shop URLs that already exist are skipped.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDevice, "device", "", "device namespace that receives the sample shops")
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML file to use instead of the built-in sample")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	deps, err := initDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	sample, err := loadSample(seedFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	seeder := seed.New(deps.Repos.Inquiry, deps.Repos.Post, nil)
	if seedDevice != "" {
		ctx = kvstore.WithNamespace(ctx, seedDevice)
		seeder = seed.New(deps.Repos.Inquiry, deps.Repos.Post, deps.Services.Shop)
	}

	result, err := seeder.Seed(ctx, sample)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "inquiries=%d posts=%d shops=%d\n", result.Inquiries, result.Posts, result.Shops)
	return nil
}

// loadSample 读取演示数据，path 为空时使用内置数据
func loadSample(path string) (*seed.Sample, error) {
	if path == "" {
		return seed.Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
