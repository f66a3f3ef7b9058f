package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"peermall/pkg/kvstore"
)

var exportDevice string

// exportCmd 导出单个设备的存储
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump one device namespace as JSON",
	Long: `Print every key of a device namespace as a JSON object.

The output has the same shape as the body of POST /api/storage/import
("entries"), so it can be replayed on another server.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDevice, "device", "", "device namespace to export (required)")
	_ = exportCmd.MarkFlagRequired("device")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	deps, err := initDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	snapshot, err := deps.Services.Storage.Export(kvstore.WithNamespace(cmd.Context(), exportDevice))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{"entries": snapshot})
}
