package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"avgtool/elfpatch"
	"avgtool/fontimg"
	"avgtool/scenario"
	"avgtool/volume"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "dump": // EVB -> translation skeleton YAML
		if len(os.Args) < 3 {
			fmt.Println("Error: Missing arguments.")
			printUsage()
			return
		}
		evbPath := os.Args[2]
		outPath := strings.TrimSuffix(evbPath, filepath.Ext(evbPath)) + ".yaml"
		iniPath := ""
		if len(os.Args) >= 4 {
			outPath = os.Args[3]
		}
		if len(os.Args) >= 5 {
			iniPath = os.Args[4]
		}
		doDump(evbPath, outPath, iniPath)

	case "translate": // EVB + YAML -> patched EVB
		if len(os.Args) < 5 {
			fmt.Println("Error: Missing arguments.")
			printUsage()
			return
		}
		iniPath := ""
		if len(os.Args) >= 6 {
			iniPath = os.Args[5]
		}
		doTranslate(os.Args[2], os.Args[3], os.Args[4], iniPath)

	case "x": // Extract VOL archive
		if len(os.Args) < 3 {
			fmt.Println("Error: Missing arguments.")
			printUsage()
			return
		}
		var outDir string
		if len(os.Args) >= 4 {
			outDir = os.Args[3]
		} else {
			base := filepath.Base(os.Args[2])
			outDir = strings.TrimSuffix(base, filepath.Ext(base)) + "_extracted"
		}
		if err := volume.Unpack(os.Args[2], outDir); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "r": // Rebuild VOL archive
		if len(os.Args) < 4 {
			fmt.Println("Error: Missing arguments.")
			printUsage()
			return
		}
		if err := volume.Pack(os.Args[2], os.Args[3]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "font":
		doFont(os.Args[2:])

	case "elf":
		fs := flag.NewFlagSet("elf", flag.ExitOnError)
		tbl := fs.String("tbl", "", "character table file (tbl.csv)")
		elf := fs.String("elf", "", "target executable")
		tr := fs.String("tr", "", "translation file (*.txt)")
		fs.Parse(os.Args[2:])
		if *tbl == "" || *elf == "" || *tr == "" {
			fmt.Println("Usage: avgtool elf -tbl tbl.csv -elf SLPS_xxx.xx -tr translation.txt")
			return
		}
		if err := backupFile(*elf); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := elfpatch.Run(*tbl, *elf, *tr); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	default:
		printUsage()
	}
}

func printUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Println("AVG script translation toolkit")
	fmt.Println("\nUsage:")
	fmt.Printf("  Dump script text:     %s dump <file.EVB> [out.yaml] [game.ini]\n", exe)
	fmt.Printf("  Translate script:     %s translate <file.EVB> <tr.yaml> <out.EVB> [game.ini]\n", exe)
	fmt.Printf("  Extract archive:      %s x <archive.vol> [out_dir]\n", exe)
	fmt.Printf("  Rebuild archive:      %s r <in_dir> <out.vol>\n", exe)
	fmt.Printf("  Extract font sheet:   %s font -e <font.fnt> [out.png]\n", exe)
	fmt.Printf("  Inject font sheet:    %s font -i <src.png> <template.fnt> <out.fnt>\n", exe)
	fmt.Printf("  Patch executable:     %s elf -tbl tbl.csv -elf SLPS_xxx.xx -tr tr.txt\n", exe)
}

func doDump(evbPath, outPath, iniPath string) {
	codec, _, err := loadProfile(iniPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	data, err := os.ReadFile(evbPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	sc, err := scenario.ParseScript(data, codec)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	out, err := yaml.Marshal(scenario.DumpTranslation(sc))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Dumped %d strings -> %s\n", len(sc.Strings), outPath)
}

func doTranslate(evbPath, trPath, outPath, iniPath string) {
	codec, metrics, err := loadProfile(iniPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	data, err := os.ReadFile(evbPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	tr, err := scenario.LoadTranslation(trPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	out, warnings, err := scenario.Translate(data, tr, codec, metrics)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "Warning: "+w.String())
	}

	if err := backupFile(outPath); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %s (%d warnings)\n", outPath, len(warnings))
}

func doFont(args []string) {
	if len(args) < 2 {
		printUsage()
		return
	}
	switch args[0] {
	case "-e":
		outPath := strings.TrimSuffix(args[1], filepath.Ext(args[1])) + ".png"
		if len(args) >= 3 {
			outPath = args[2]
		}
		if err := fontimg.Extract(args[1], outPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	case "-i":
		if len(args) < 4 {
			fmt.Println("Error: Missing arguments.")
			printUsage()
			return
		}
		if err := fontimg.Inject(args[1], args[2], args[3]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	default:
		printUsage()
	}
}

// backupFile keeps a .bak copy of a file about to be overwritten.
func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.WriteFile(path+".bak", data, 0644)
}
