package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/metrics"
	"github.com/ByLCY/vitae/renderer"
	canvasrenderer "github.com/ByLCY/vitae/renderer/canvas"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/theme"
	"github.com/ByLCY/vitae/watch"
)

const creator = "vitae"

type config struct {
	data     string
	theme    string
	out      string
	outDir   string
	fontDir  string
	metrics  string
	nameTmpl string
	debugDir string
	seed     int64
}

func main() {
	var cfg config
	flag.StringVar(&cfg.data, "data", "resume.json", "简历 JSON 文件（单个对象或数组）")
	flag.StringVar(&cfg.theme, "theme", "", "主题：modern|classic|minimal|random 或 .theme 文件；默认单份用 modern，批量随机")
	flag.StringVar(&cfg.out, "out", "", "单份简历的 PDF 输出路径")
	flag.StringVar(&cfg.outDir, "outdir", "output", "批量输出目录")
	flag.StringVar(&cfg.fontDir, "fonts", "", "额外的字体目录（也可设置 "+fonts.EnvFontDir+"）")
	flag.StringVar(&cfg.metrics, "metrics", "canvas", "字宽度量方式：canvas|opentype|shaping")
	flag.StringVar(&cfg.nameTmpl, "name", "", "输出文件名模板，例如 ${firstname}_${theme}.pdf")
	flag.StringVar(&cfg.debugDir, "debug", "", "排版调试 JSON 输出目录")
	flag.Int64Var(&cfg.seed, "seed", 0, "随机主题的种子，0 表示取当前时间")
	watchMode := flag.Bool("watch", false, "数据或主题文件变化后重新渲染")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	written, err := a.run()
	for _, path := range written {
		fmt.Printf("已生成 PDF：%s\n", path)
	}
	if err != nil && !*watchMode {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	if !*watchMode {
		return
	}
	if err != nil {
		layout.Logger().Error("render failed", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := a.watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("监听文件失败: %v", err)
	}
}

// app 持有跨多次渲染复用的字体、度量与渲染器。
type app struct {
	cfg      config
	reg      *fonts.Registry
	renderer renderer.Renderer
	flow     *layout.Flow
	rng      *rand.Rand
}

func newApp(cfg config) (*app, error) {
	opts := fonts.Options{}
	if cfg.fontDir != "" {
		opts.Dirs = fonts.DefaultDirs(cfg.fontDir)
	}
	reg, err := fonts.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	r := canvasrenderer.NewRenderer(reg)
	m, err := newMeasurer(cfg.metrics, reg, r)
	if err != nil {
		return nil, err
	}
	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	layout.Logger().Debug("renderer ready", "metrics", cfg.metrics, "seed", seed)
	return &app{
		cfg:      cfg,
		reg:      reg,
		renderer: r,
		flow:     layout.NewFlow(layout.NewWrapper(m), layout.FlowOptions{}),
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// newMeasurer 选择字宽度量实现。canvas 与 PDF 输出使用同一套字体度量。
func newMeasurer(kind string, reg *fonts.Registry, r *canvasrenderer.Renderer) (layout.Measurer, error) {
	if kind == "canvas" {
		return metrics.NewCache(r), nil
	}
	m, err := metrics.New(kind, reg)
	if err != nil {
		return nil, err
	}
	return metrics.NewCache(m), nil
}

// themeFile 返回 -theme 指向的主题文件；内置主题名返回空串。
func (a *app) themeFile() string {
	if strings.HasSuffix(a.cfg.theme, ".theme") {
		return a.cfg.theme
	}
	return ""
}

// run 读取记录与主题并渲染全部记录，返回已写出的文件。
// 批量渲染时单条记录失败不会中断其余记录，错误在最后合并返回。
func (a *app) run() ([]string, error) {
	records, err := resume.Load(a.cfg.data)
	if err != nil {
		return nil, err
	}
	set, err := theme.Builtin()
	if err != nil {
		return nil, err
	}
	themeName := a.cfg.theme
	if file := a.themeFile(); file != "" {
		names, err := set.LoadFile(file)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("主题文件 %s 没有声明主题", file)
		}
		themeName = names[0]
	}

	single := len(records) == 1 && a.cfg.out != ""
	if a.cfg.out != "" && !single {
		return nil, fmt.Errorf("-out 只能用于单条记录，%s 中有 %d 条，请改用 -outdir", a.cfg.data, len(records))
	}
	if themeName == "" {
		themeName = "random"
		if len(records) == 1 {
			themeName = "modern"
		}
	}

	var written []string
	var errs []error
	for i := range records {
		rec := &records[i]
		th, err := a.pick(set, themeName)
		if err != nil {
			return written, err
		}
		path := a.cfg.out
		if !single {
			name, err := a.fileName(rec, th.Name, i)
			if err != nil {
				errs = append(errs, fmt.Errorf("记录 %d: %w", i, err))
				continue
			}
			path = filepath.Join(a.cfg.outDir, name)
		}
		if err := a.render(rec, th, path); err != nil {
			errs = append(errs, fmt.Errorf("记录 %d（%s）: %w", i, rec.FullName(), err))
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func (a *app) pick(set *theme.Set, name string) (*theme.Theme, error) {
	if name == "random" {
		return set.Random(a.rng)
	}
	return set.Get(name)
}

func (a *app) fileName(rec *resume.Record, themeName string, index int) (string, error) {
	if a.cfg.nameTmpl == "" {
		return resume.SuggestName(rec, themeName), nil
	}
	return resume.NameFromTemplate(a.cfg.nameTmpl, rec, themeName, index)
}

// render 串联排版、调试输出与 PDF 渲染。
func (a *app) render(rec *resume.Record, th *theme.Theme, path string) error {
	result, err := resume.Build(rec, th, resume.BuildOptions{
		Flow:    a.flow,
		Fonts:   a.reg,
		Creator: creator,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if a.cfg.debugDir != "" {
		debugPath := filepath.Join(a.cfg.debugDir, strings.TrimSuffix(filepath.Base(path), ".pdf")+".json")
		if err := layout.WriteDebugJSON(result, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := a.renderer.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	layout.Logger().Info("rendered", "path", path, "theme", th.Name, "pages", len(result.Pages))
	return nil
}

// watch 在数据文件或主题文件变化后重新渲染，直到 ctx 结束。
func (a *app) watch(ctx context.Context) error {
	paths := []string{a.cfg.data}
	if file := a.themeFile(); file != "" {
		paths = append(paths, file)
	}
	w, err := watch.New(paths, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()
	layout.Logger().Info("watching", "paths", paths)
	return w.Run(ctx, func() error {
		written, err := a.run()
		for _, path := range written {
			fmt.Printf("已生成 PDF：%s\n", path)
		}
		return err
	})
}
