package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// QueryRow is one result row of a Google Ads search request.
type QueryRow map[string]json.RawMessage

// RunQuery executes a GAQL query against a customer account and returns the
// raw result rows, following page tokens until exhausted.
func (a *Adapter) RunQuery(ctx context.Context, app *domain.AppCredentials, accessToken, customerID, gaql string) ([]QueryRow, error) {
	customerID = normalizeCustomerID(customerID)
	endpoint := fmt.Sprintf("%s/customers/%s/googleAds:search", a.apiBase, customerID)

	var rows []QueryRow
	pageToken := ""
	for {
		body := map[string]string{"query": gaql}
		if pageToken != "" {
			body["pageToken"] = pageToken
		}
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal query: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("developer-token", app.DeveloperToken)
		if app.ManagerAccountID != "" {
			req.Header.Set("login-customer-id", normalizeCustomerID(app.ManagerAccountID))
		}

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransientProvider, err)
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, classifyAPIStatus(resp.StatusCode, raw)
		}

		var page struct {
			Results       []QueryRow `json:"results"`
			NextPageToken string     `json:"nextPageToken"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		rows = append(rows, page.Results...)
		if page.NextPageToken == "" {
			return rows, nil
		}
		pageToken = page.NextPageToken
	}
}

// SyncManagedAccount fetches the manager account's descriptive metadata and
// its client ad accounts. A failure listing clients yields the account with
// no children rather than a total failure.
func (a *Adapter) SyncManagedAccount(ctx context.Context, app *domain.AppCredentials, accessToken, externalID string) (*domain.ManagedAccountInfo, error) {
	customerID := normalizeCustomerID(externalID)

	rows, err := a.RunQuery(ctx, app, accessToken, customerID,
		`SELECT customer.id, customer.descriptive_name, customer.currency_code, customer.time_zone FROM customer`)
	if err != nil {
		return nil, fmt.Errorf("fetch customer: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, customerID)
	}

	var cust struct {
		Customer struct {
			ID              string `json:"id"`
			DescriptiveName string `json:"descriptiveName"`
			CurrencyCode    string `json:"currencyCode"`
			TimeZone        string `json:"timeZone"`
		} `json:"customer"`
	}
	if err := unmarshalRow(rows[0], &cust); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}

	account := &domain.ManagedAccount{
		ProviderType: domain.ProviderTypeGoogleAds,
		ExternalID:   cust.Customer.ID,
		Name:         cust.Customer.DescriptiveName,
		Currency:     cust.Customer.CurrencyCode,
		Timezone:     cust.Customer.TimeZone,
	}

	info := &domain.ManagedAccountInfo{Account: account}

	clients, err := a.listClientAccounts(ctx, app, accessToken, customerID)
	if err != nil {
		slog.Warn("listing client accounts failed, returning account without children",
			"customer_id", customerID, "error", err)
		return info, nil
	}
	info.AdAccounts = clients

	return info, nil
}

// listClientAccounts lists the non-manager client accounts under a manager.
func (a *Adapter) listClientAccounts(ctx context.Context, app *domain.AppCredentials, accessToken, customerID string) ([]*domain.AdAccount, error) {
	rows, err := a.RunQuery(ctx, app, accessToken, customerID,
		`SELECT customer_client.id, customer_client.descriptive_name, customer_client.currency_code, customer_client.status FROM customer_client WHERE customer_client.manager = FALSE`)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.AdAccount, 0, len(rows))
	for _, row := range rows {
		var cc struct {
			CustomerClient struct {
				ID              string `json:"id"`
				DescriptiveName string `json:"descriptiveName"`
				CurrencyCode    string `json:"currencyCode"`
				Status          string `json:"status"`
			} `json:"customerClient"`
		}
		if err := unmarshalRow(row, &cc); err != nil {
			slog.Warn("skipping undecodable client account row", "error", err)
			continue
		}
		accounts = append(accounts, &domain.AdAccount{
			AccountID:  customerID,
			ExternalID: cc.CustomerClient.ID,
			Name:       cc.CustomerClient.DescriptiveName,
			Currency:   cc.CustomerClient.CurrencyCode,
			Status:     cc.CustomerClient.Status,
		})
	}
	return accounts, nil
}

func unmarshalRow(row QueryRow, target any) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// classifyAPIStatus maps a Google Ads API error status onto the taxonomy.
func classifyAPIStatus(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: api status 401", domain.ErrReauthorizationRequired)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: api status %d", domain.ErrTransientProvider, status)
	default:
		return fmt.Errorf("google ads api status %d: %s", status, string(body))
	}
}

// normalizeCustomerID strips the dashes of a displayed customer id
// (123-456-7890 -> 1234567890).
func normalizeCustomerID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}
