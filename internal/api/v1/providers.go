package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ProviderInfo is one registered provider and the models it can serve.
type ProviderInfo struct {
	Name   string   `json:"name" doc:"Service type name used in agent templates"`
	Models []string `json:"models" doc:"Model identifiers the provider reports as usable"`
}

type ListProvidersOutput struct {
	Body []ProviderInfo
}

func RegisterProviderRoutes(api huma.API, catalog ModelCatalog) {
	huma.Register(api, huma.Operation{
		OperationID: "list-providers",
		Method:      http.MethodGet,
		Path:        "/providers",
		Summary:     "List registered providers and their models",
		Tags:        []string{"Providers"},
	}, func(ctx context.Context, _ *struct{}) (*ListProvidersOutput, error) {
		models := catalog.WithModels(ctx)

		// Available() is sorted; WithModels may omit providers whose model
		// listing failed, so iterate names and skip the missing ones.
		infos := make([]ProviderInfo, 0, len(models))
		for _, name := range catalog.Available() {
			if list, ok := models[name]; ok {
				infos = append(infos, ProviderInfo{Name: name, Models: list})
			}
		}

		return &ListProvidersOutput{Body: infos}, nil
	})
}
