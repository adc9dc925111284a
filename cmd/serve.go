package cmd

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/packwiz/texwiz/cmdshared"
	"github.com/packwiz/texwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed serve-templates/index.html
var indexPage string

var indexTemplate = template.Must(template.New("index-page").Parse(indexPage))

// newServeHandler serves the pack list at /, each pack's export at /<id>.mcpack and the
// raw pack files under /packs/<id>/
func newServeHandler(repo *core.Repository) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/packs/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/packs/")
		id, _, _ := strings.Cut(rest, "/")
		if _, err := repo.GetPack(req.Context(), id); err != nil {
			http.NotFound(w, req)
			return
		}
		http.StripPrefix("/packs/"+id, http.FileServer(http.Dir(repo.PackDir(id)))).ServeHTTP(w, req)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/" {
			packs, err := repo.ListPacks(req.Context())
			if err != nil {
				repo.Log.WithError(err).Error("Failed to list packs")
				http.Error(w, "Failed to list packs", http.StatusInternalServerError)
				return
			}
			sort.Slice(packs, func(i, j int) bool {
				return strings.ToLower(packs[i].Name) < strings.ToLower(packs[j].Name)
			})
			buf := new(bytes.Buffer)
			if err := indexTemplate.Execute(buf, struct{ Packs []core.Pack }{Packs: packs}); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(buf.Bytes())
			return
		}

		id, ok := strings.CutSuffix(strings.TrimPrefix(req.URL.Path, "/"), ".mcpack")
		if !ok || strings.Contains(id, "/") {
			http.NotFound(w, req)
			return
		}
		pack, err := repo.GetPack(req.Context(), id)
		if err != nil {
			http.NotFound(w, req)
			return
		}
		// Build the archive first so a failure can still be reported with a status code
		buf := new(bytes.Buffer)
		if err := repo.WriteExport(req.Context(), id, buf); err != nil {
			repo.Log.WithError(err).WithField("pack", id).Error("Failed to export pack")
			http.Error(w, "Failed to export pack", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pack.GetPackName()+".mcpack"))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = w.Write(buf.Bytes())
	})

	return mux
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run a local server for downloading packs onto a device",
	Long:    `Run a local HTTP server listing every pack, exporting each one as an .mcpack when it is requested`,
	Aliases: []string{"server"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		port := strconv.Itoa(viper.GetInt("serve.port"))
		repo, err := cmdshared.LoadRepository()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Println("Running on port " + port)
		err = http.ListenAndServe(":"+port, newServeHandler(repo))
		if err != nil {
			fmt.Printf("Error running server: %s\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "The port to run the server on")
	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}
