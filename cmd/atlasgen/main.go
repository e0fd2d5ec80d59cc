// Package main 提供 SDF 字体图集生成工具
//
// 从 TrueType/OpenType 字体烘焙距离场图集，输出 PNG 图像和 YAML 描述文件，
// 生成的文件可以通过配置中的 font.atlas / font.image 加载。
//
// Usage:
//
//	go run ./cmd/atlasgen [flags]
//
// Flags:
//
//	--ttf <path>       字体文件（默认内置 Go Bold）
//	--out <dir>        输出目录（默认 data/fonts）
//	--name <name>      输出文件名前缀（默认 atlas）
//	--size <px>        烘焙字号（默认 48）
//	--spread <px>      距离场范围（默认 6）
//	--width <px>       图集宽度（默认 1024）
//	--charset <text>   字符集（默认可打印 ASCII）
//	--verbose          输出详细日志
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/waterfx/pkg/font"
	"github.com/decker502/waterfx/pkg/sdf"
)

var (
	ttfFlag     = flag.String("ttf", "", "Font file (default: built-in Go Bold)")
	outFlag     = flag.String("out", "data/fonts", "Output directory")
	nameFlag    = flag.String("name", "atlas", "Output file name prefix")
	sizeFlag    = flag.Float64("size", sdf.DefaultSize, "Bake size in pixels per em")
	spreadFlag  = flag.Int("spread", sdf.DefaultSpread, "Distance field spread in pixels")
	widthFlag   = flag.Int("width", sdf.DefaultWidth, "Atlas width in pixels")
	charsetFlag = flag.String("charset", "", "Characters to bake (default: printable ASCII)")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	var ttf []byte
	if *ttfFlag != "" {
		data, err := os.ReadFile(*ttfFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		ttf = data
	}

	opts := sdf.Options{
		Size:   *sizeFlag,
		Spread: *spreadFlag,
		Width:  *widthFlag,
	}
	if *charsetFlag != "" {
		opts.Runes = []rune(*charsetFlag)
	}

	atlasPath, imagePath, err := generate(ttf, opts, *outFlag, *nameFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Atlas: %s\n", atlasPath)
	fmt.Printf("Image: %s\n", imagePath)
}

// generate 烘焙图集并写出 <name>.yaml 和 <name>.png
func generate(ttf []byte, opts sdf.Options, outDir, name string) (string, string, error) {
	atlas, img, err := sdf.Bake(ttf, opts)
	if err != nil {
		return "", "", err
	}

	data, err := font.MarshalAtlas(atlas)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	atlasPath := filepath.Join(outDir, name+".yaml")
	if err := os.WriteFile(atlasPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write atlas: %w", err)
	}

	imagePath := filepath.Join(outDir, name+".png")
	if err := writePNG(imagePath, img); err != nil {
		return "", "", err
	}

	log.Printf("[atlasgen] %d glyphs, %dx%d image", len(atlas.Chars), img.Bounds().Dx(), img.Bounds().Dy())
	return atlasPath, imagePath, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
