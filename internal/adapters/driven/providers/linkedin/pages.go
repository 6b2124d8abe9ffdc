package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

const organizationPageSize = 50

// ListManagedAccounts lists the organization pages the grant administers.
// One page's metadata fetch failing yields a candidate-less entry for that
// page and a logged warning, never an aborted listing.
func (a *Adapter) ListManagedAccounts(ctx context.Context, accessToken string) ([]domain.SelectionCandidate, error) {
	var candidates []domain.SelectionCandidate

	start := 0
	for {
		path := fmt.Sprintf("/v2/organizationAcls?q=roleAssignee&role=ADMINISTRATOR&state=APPROVED&start=%d&count=%d",
			start, organizationPageSize)

		var acls struct {
			Elements []struct {
				Organization string `json:"organization"`
			} `json:"elements"`
			Paging struct {
				Start int `json:"start"`
				Count int `json:"count"`
				Total int `json:"total"`
			} `json:"paging"`
		}
		if err := a.apiGet(ctx, accessToken, path, &acls); err != nil {
			return nil, fmt.Errorf("list organization acls: %w", err)
		}

		for _, el := range acls.Elements {
			orgID := organizationIDFromURN(el.Organization)
			if orgID == "" {
				continue
			}

			page, err := a.fetchOrganization(ctx, accessToken, orgID)
			if err != nil {
				slog.Warn("skipping organization page with failed metadata fetch",
					"organization_id", orgID, "error", err)
				candidates = append(candidates, domain.SelectionCandidate{ID: orgID})
				continue
			}
			candidates = append(candidates, *page)
		}

		start += len(acls.Elements)
		if len(acls.Elements) == 0 || start >= acls.Paging.Total {
			return candidates, nil
		}
	}
}

// fetchOrganization fetches one organization page's display metadata.
func (a *Adapter) fetchOrganization(ctx context.Context, accessToken, orgID string) (*domain.SelectionCandidate, error) {
	var org struct {
		LocalizedName string `json:"localizedName"`
		LogoV2        struct {
			Original string `json:"original"`
		} `json:"logoV2"`
	}
	if err := a.apiGet(ctx, accessToken, "/v2/organizations/"+url.PathEscape(orgID), &org); err != nil {
		return nil, err
	}

	return &domain.SelectionCandidate{
		ID:      orgID,
		Name:    org.LocalizedName,
		LogoURN: org.LogoV2.Original,
	}, nil
}

// SyncManagedAccount fetches an organization page's metadata and its campaign
// groups. The logo URN is resolved best-effort; campaign-group failures are
// logged and leave the snapshot without children.
func (a *Adapter) SyncManagedAccount(ctx context.Context, app *domain.AppCredentials, accessToken, externalID string) (*domain.ManagedAccountInfo, error) {
	var org struct {
		LocalizedName string `json:"localizedName"`
		LogoV2        struct {
			Original string `json:"original"`
		} `json:"logoV2"`
		Locations []struct {
			Address struct {
				City    string `json:"city"`
				Country string `json:"country"`
			} `json:"address"`
		} `json:"locations"`
	}
	if err := a.apiGet(ctx, accessToken, "/v2/organizations/"+url.PathEscape(externalID), &org); err != nil {
		return nil, fmt.Errorf("fetch organization: %w", err)
	}

	account := &domain.ManagedAccount{
		ProviderType: domain.ProviderTypeLinkedInPage,
		ExternalID:   externalID,
		Name:         org.LocalizedName,
	}
	if len(org.Locations) > 0 {
		addr := org.Locations[0].Address
		account.Address = strings.TrimPrefix(addr.City+", "+addr.Country, ", ")
	}
	if org.LogoV2.Original != "" {
		logoURL, err := a.ResolveMediaURL(ctx, accessToken, org.LogoV2.Original)
		if err == nil {
			account.LogoURL = logoURL
		}
	}

	info := &domain.ManagedAccountInfo{Account: account}

	groups, err := a.ListCampaignGroups(ctx, accessToken, externalID)
	if err != nil {
		slog.Warn("listing campaign groups failed, returning page without children",
			"organization_id", externalID, "error", err)
		return info, nil
	}
	info.CampaignGroups = groups

	return info, nil
}

// ListCampaignGroups lists the campaign groups of a sponsored account.
func (a *Adapter) ListCampaignGroups(ctx context.Context, accessToken, accountID string) ([]*domain.CampaignGroup, error) {
	path := "/v2/adCampaignGroupsV2?q=search&search.account.values[0]=" +
		url.QueryEscape("urn:li:sponsoredAccount:"+accountID)

	var result struct {
		Elements []struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"elements"`
	}
	if err := a.apiGet(ctx, accessToken, path, &result); err != nil {
		return nil, fmt.Errorf("list campaign groups: %w", err)
	}

	groups := make([]*domain.CampaignGroup, 0, len(result.Elements))
	for _, el := range result.Elements {
		groups = append(groups, &domain.CampaignGroup{
			AccountID:  accountID,
			ExternalID: fmt.Sprintf("%d", el.ID),
			Name:       el.Name,
			Status:     el.Status,
		})
	}
	return groups, nil
}

// ResolveMediaURL resolves a digital-media URN to a download URL.
// Best-effort: any non-2xx response (permission denied, rate limit, not
// found) yields an empty URL and no error - the caller treats a missing
// image as acceptable degraded output.
func (a *Adapter) ResolveMediaURL(ctx context.Context, accessToken, urn string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.apiBase+"/v2/assets/"+url.PathEscape(assetIDFromURN(urn)), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	var asset struct {
		DownloadURL string `json:"downloadUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return "", nil
	}
	return asset.DownloadURL, nil
}

// organizationIDFromURN extracts the numeric id of urn:li:organization:123.
func organizationIDFromURN(urn string) string {
	idx := strings.LastIndex(urn, ":")
	if idx < 0 || idx == len(urn)-1 {
		return ""
	}
	return urn[idx+1:]
}

// assetIDFromURN extracts the id of urn:li:digitalmediaAsset:ABC.
func assetIDFromURN(urn string) string {
	if id := organizationIDFromURN(urn); id != "" {
		return id
	}
	return urn
}
