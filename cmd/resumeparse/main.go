package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	appCoreLogger "resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/processor"
)

func main() {
	var (
		configPath string
		backend    string
		segmenter  string
		compact    bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.StringVarP(&backend, "backend", "b", parser.HeuristicBackend, "Extraction backend: heuristic, llm-refine or llm-direct")
	pflag.StringVarP(&segmenter, "segmenter", "s", "", "Override segmenter strategy: line or regex")
	pflag.BoolVar(&compact, "compact", false, "Print compact JSON")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <resume-file>\n", filepath.Base(os.Args[0]))
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}
	if err := run(configPath, backend, segmenter, pflag.Arg(0), compact); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, backend, segmenter, path string, compact bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if segmenter != "" {
		cfg.Parser.Segmenter = segmenter
	}
	// CLI 总是可以处理全部本地格式
	cfg.Parser.SupportedFormats = []string{"pdf", "docx", "txt"}

	// 日志写到 stderr，stdout 只输出 JSON
	appCoreLogger.InitWithWriter(appCoreLogger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	}, os.Stderr)

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}

	ctx := context.Background()
	// 不连接任何存储，只做解析
	service, closer, err := processor.NewServiceFromConfig(ctx, cfg, nil, appCoreLogger.Logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	result, err := service.Process(ctx, processor.ParseRequest{
		Filename: filepath.Base(path),
		Content:  content,
		Backend:  backend,
	})
	if err != nil {
		return err
	}
	if result.Insufficient {
		appCoreLogger.Warn().Str("file", path).Msg(constants.InsufficientMessage)
	}

	enc := json.NewEncoder(os.Stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result.Record)
}
