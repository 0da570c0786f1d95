package stratus

import (
	"time"
)

// Resource represents the base structure for identified API resources.
type Resource struct {
	ID         string    `json:"id"          yaml:"id"`
	CreatedOn  time.Time `json:"created_on"  yaml:"created_on"`
	ModifiedOn time.Time `json:"modified_on" yaml:"modified_on"`
}

// Message represents an informational message in API responses.
type Message struct {
	Code    int    `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// ResultInfo represents pagination information.
type ResultInfo struct {
	Page       int `json:"page"        yaml:"page"`
	PerPage    int `json:"per_page"    yaml:"per_page"`
	Count      int `json:"count"       yaml:"count"`
	TotalCount int `json:"total_count" yaml:"total_count"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
}

// APIResponse represents the standard single-result response envelope.
type APIResponse[T any] struct {
	Success  bool        `json:"success"               yaml:"success"`
	Errors   []APIError  `json:"errors,omitempty"      yaml:"errors,omitempty"`
	Messages []Message   `json:"messages,omitempty"    yaml:"messages,omitempty"`
	Result   T           `json:"result"                yaml:"result"`
	Info     *ResultInfo `json:"result_info,omitempty" yaml:"result_info,omitempty"`
}

// ListResponse represents the standard paginated list response envelope.
type ListResponse[T any] struct {
	Success  bool       `json:"success"            yaml:"success"`
	Errors   []APIError `json:"errors,omitempty"   yaml:"errors,omitempty"`
	Messages []Message  `json:"messages,omitempty" yaml:"messages,omitempty"`
	Result   []T        `json:"result"             yaml:"result"`
	Info     ResultInfo `json:"result_info"        yaml:"result_info"`
}

// AccountReference identifies the account owning a resource.
type AccountReference struct {
	ID   string `json:"id"             yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Zone represents a DNS zone.
type Zone struct {
	Resource

	Name              string           `json:"name"                            yaml:"name"`
	Status            string           `json:"status"                          yaml:"status"`
	Paused            bool             `json:"paused"                          yaml:"paused"`
	Type              string           `json:"type"                            yaml:"type"`
	NameServers       []string         `json:"name_servers,omitempty"          yaml:"name_servers,omitempty"`
	OriginalNS        []string         `json:"original_name_servers,omitempty" yaml:"original_name_servers,omitempty"`
	Account           AccountReference `json:"account"                         yaml:"account"`
	Plan              *ZonePlan        `json:"plan,omitempty"                  yaml:"plan,omitempty"`
	ActivatedOn       *time.Time       `json:"activated_on,omitempty"          yaml:"activated_on,omitempty"`
	VanityNameServers []string         `json:"vanity_name_servers,omitempty"   yaml:"vanity_name_servers,omitempty"`
}

// ZonePlan represents the subscription plan attached to a zone.
type ZonePlan struct {
	ID           string `json:"id"                 yaml:"id"`
	Name         string `json:"name"               yaml:"name"`
	Currency     string `json:"currency,omitempty" yaml:"currency,omitempty"`
	IsSubscribed bool   `json:"is_subscribed"      yaml:"is_subscribed"`
}

// ZoneCreateRequest represents a request to create a zone.
type ZoneCreateRequest struct {
	// Name is the zone apex domain (unique per account).
	Name string `json:"name" yaml:"name"`
	// Account must reference the owning account.
	Account AccountReference `json:"account" yaml:"account"`
	// Type selects full or partial (CNAME) setup; empty means full.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// ZoneUpdateRequest represents a request to update a zone.
type ZoneUpdateRequest struct {
	// Paused toggles traffic processing; nil leaves it unchanged.
	Paused *bool `json:"paused,omitempty" yaml:"paused,omitempty"`
	// Plan changes the subscription plan; nil leaves it unchanged.
	Plan *ZonePlan `json:"plan,omitempty" yaml:"plan,omitempty"`
	// VanityNameServers replaces the vanity name server set.
	VanityNameServers []string `json:"vanity_name_servers,omitempty" yaml:"vanity_name_servers,omitempty"`
}

// ZonePurgeRequest represents a cache purge request for a zone.
type ZonePurgeRequest struct {
	// PurgeEverything drops the entire zone cache when true.
	PurgeEverything *bool `json:"purge_everything,omitempty" yaml:"purge_everything,omitempty"`
	// Files purges individual URLs.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
	// Tags purges by cache tag.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	// Hosts purges by hostname.
	Hosts []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
}

// ZonePurgeResult reports the zone a purge was accepted for.
type ZonePurgeResult struct {
	ID string `json:"id" yaml:"id"`
}

// DNSRecord represents a DNS record within a zone.
type DNSRecord struct {
	Resource

	Type      string   `json:"type"                yaml:"type"`
	Name      string   `json:"name"                yaml:"name"`
	Content   string   `json:"content"             yaml:"content"`
	TTL       int      `json:"ttl"                 yaml:"ttl"`
	Priority  *int     `json:"priority,omitempty"  yaml:"priority,omitempty"`
	Proxied   *bool    `json:"proxied,omitempty"   yaml:"proxied,omitempty"`
	Proxiable bool     `json:"proxiable"           yaml:"proxiable"`
	Locked    bool     `json:"locked"              yaml:"locked"`
	ZoneID    string   `json:"zone_id"             yaml:"zone_id"`
	ZoneName  string   `json:"zone_name"           yaml:"zone_name"`
	Comment   string   `json:"comment,omitempty"   yaml:"comment,omitempty"`
	Tags      []string `json:"tags,omitempty"      yaml:"tags,omitempty"`
}

// DNSRecordCreateRequest represents a request to create a DNS record.
type DNSRecordCreateRequest struct {
	// Type is the record type (A, AAAA, CNAME, MX, TXT, ...).
	Type string `json:"type" yaml:"type"`
	// Name is the record name relative to the zone, or "@" for the apex.
	Name string `json:"name" yaml:"name"`
	// Content is the record value (address, target, text, ...).
	Content string `json:"content" yaml:"content"`
	// TTL in seconds; 1 means automatic.
	TTL int `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	// Priority is required for MX and SRV records.
	Priority *int `json:"priority,omitempty" yaml:"priority,omitempty"`
	// Proxied routes the record through the edge when true.
	Proxied *bool `json:"proxied,omitempty" yaml:"proxied,omitempty"`
	// Comment attaches an operator note to the record.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Tags attaches searchable tags to the record.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// DNSRecordUpdateRequest represents a request to update a DNS record.
// Nil fields are left unchanged.
type DNSRecordUpdateRequest struct {
	Type    *string  `json:"type,omitempty"    yaml:"type,omitempty"`
	Name    *string  `json:"name,omitempty"    yaml:"name,omitempty"`
	Content *string  `json:"content,omitempty" yaml:"content,omitempty"`
	TTL     *int     `json:"ttl,omitempty"     yaml:"ttl,omitempty"`
	Proxied *bool    `json:"proxied,omitempty" yaml:"proxied,omitempty"`
	Comment *string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Tags    []string `json:"tags,omitempty"    yaml:"tags,omitempty"`
}

// Bucket represents an S3-compatible storage bucket.
type Bucket struct {
	Name         string    `json:"name"                    yaml:"name"`
	CreationDate time.Time `json:"creation_date"           yaml:"creation_date"`
	Location     string    `json:"location,omitempty"      yaml:"location,omitempty"`
	StorageClass string    `json:"storage_class,omitempty" yaml:"storage_class,omitempty"`
}

// BucketCreateRequest represents a request to create a storage bucket.
type BucketCreateRequest struct {
	// Name is the bucket name (unique per account, S3 naming rules).
	Name string `json:"name" yaml:"name"`
	// LocationHint suggests a placement region; the service may override it.
	LocationHint string `json:"location_hint,omitempty" yaml:"location_hint,omitempty"`
	// StorageClass selects the default class for stored objects.
	StorageClass string `json:"storage_class,omitempty" yaml:"storage_class,omitempty"`
}

// Ruleset represents an ordered collection of firewall rules for a zone.
type Ruleset struct {
	ID          string     `json:"id"                     yaml:"id"`
	Name        string     `json:"name"                   yaml:"name"`
	Description string     `json:"description,omitempty"  yaml:"description,omitempty"`
	Kind        string     `json:"kind"                   yaml:"kind"`
	Phase       string     `json:"phase"                  yaml:"phase"`
	Version     string     `json:"version,omitempty"      yaml:"version,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	Rules       []Rule     `json:"rules,omitempty"        yaml:"rules,omitempty"`
}

// Rule represents a single firewall rule within a ruleset.
type Rule struct {
	ID          string     `json:"id,omitempty"           yaml:"id,omitempty"`
	Action      string     `json:"action"                 yaml:"action"`
	Expression  string     `json:"expression"             yaml:"expression"`
	Description string     `json:"description,omitempty"  yaml:"description,omitempty"`
	Enabled     *bool      `json:"enabled,omitempty"      yaml:"enabled,omitempty"`
	Version     string     `json:"version,omitempty"      yaml:"version,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// RulesetCreateRequest represents a request to create a ruleset.
type RulesetCreateRequest struct {
	// Name identifies the ruleset within its phase.
	Name string `json:"name" yaml:"name"`
	// Description documents the ruleset's purpose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Kind is root or zone; zone rulesets attach to a single zone.
	Kind string `json:"kind" yaml:"kind"`
	// Phase selects the request-processing phase the ruleset runs in.
	Phase string `json:"phase" yaml:"phase"`
	// Rules is the initial ordered rule list.
	Rules []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// RulesetUpdateRequest represents a request to update a ruleset.
// The rule list replaces the existing rules wholesale.
type RulesetUpdateRequest struct {
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []Rule  `json:"rules"                 yaml:"rules"`
}

// APIToken represents an API token.
type APIToken struct {
	ID         string        `json:"id"                     yaml:"id"`
	Name       string        `json:"name"                   yaml:"name"`
	Status     string        `json:"status"                 yaml:"status"`
	IssuedOn   *time.Time    `json:"issued_on,omitempty"    yaml:"issued_on,omitempty"`
	ModifiedOn *time.Time    `json:"modified_on,omitempty"  yaml:"modified_on,omitempty"`
	NotBefore  *time.Time    `json:"not_before,omitempty"   yaml:"not_before,omitempty"`
	ExpiresOn  *time.Time    `json:"expires_on,omitempty"   yaml:"expires_on,omitempty"`
	LastUsedOn *time.Time    `json:"last_used_on,omitempty" yaml:"last_used_on,omitempty"`
	Policies   []TokenPolicy `json:"policies,omitempty"     yaml:"policies,omitempty"`

	// Value is the token secret. It is only populated on create and roll
	// responses and is never retrievable afterwards.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// TokenPolicy represents an access policy attached to a token.
type TokenPolicy struct {
	ID               string            `json:"id,omitempty"      yaml:"id,omitempty"`
	Effect           string            `json:"effect"            yaml:"effect"`
	Resources        map[string]string `json:"resources"         yaml:"resources"`
	PermissionGroups []PermissionGroup `json:"permission_groups" yaml:"permission_groups"`
}

// PermissionGroup represents a named group of API permissions.
type PermissionGroup struct {
	ID   string `json:"id"             yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// TokenCreateRequest represents a request to create an API token.
type TokenCreateRequest struct {
	// Name labels the token in listings.
	Name string `json:"name" yaml:"name"`
	// Policies grants the token its permissions; at least one is required.
	Policies []TokenPolicy `json:"policies" yaml:"policies"`
	// NotBefore delays token validity; nil means valid immediately.
	NotBefore *time.Time `json:"not_before,omitempty" yaml:"not_before,omitempty"`
	// ExpiresOn bounds token validity; nil means no expiry.
	ExpiresOn *time.Time `json:"expires_on,omitempty" yaml:"expires_on,omitempty"`
	// Condition restricts where the token may be used from.
	Condition *TokenCondition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// TokenUpdateRequest represents a request to update an API token.
type TokenUpdateRequest struct {
	Name     *string       `json:"name,omitempty"     yaml:"name,omitempty"`
	Status   *string       `json:"status,omitempty"   yaml:"status,omitempty"`
	Policies []TokenPolicy `json:"policies,omitempty" yaml:"policies,omitempty"`
}

// TokenCondition restricts the client addresses a token accepts.
type TokenCondition struct {
	RequestIP *TokenRequestIP `json:"request_ip,omitempty" yaml:"request_ip,omitempty"`
}

// TokenRequestIP lists allowed and denied CIDR ranges.
type TokenRequestIP struct {
	In    []string `json:"in,omitempty"     yaml:"in,omitempty"`
	NotIn []string `json:"not_in,omitempty" yaml:"not_in,omitempty"`
}

// TokenVerifyResult reports the status of the token used for a request.
type TokenVerifyResult struct {
	ID        string     `json:"id"                   yaml:"id"`
	Status    string     `json:"status"               yaml:"status"`
	NotBefore *time.Time `json:"not_before,omitempty" yaml:"not_before,omitempty"`
	ExpiresOn *time.Time `json:"expires_on,omitempty" yaml:"expires_on,omitempty"`
}

// Account represents an account.
type Account struct {
	ID        string           `json:"id"                   yaml:"id"`
	Name      string           `json:"name"                 yaml:"name"`
	Type      string           `json:"type,omitempty"       yaml:"type,omitempty"`
	CreatedOn *time.Time       `json:"created_on,omitempty" yaml:"created_on,omitempty"`
	Settings  *AccountSettings `json:"settings,omitempty"   yaml:"settings,omitempty"`
}

// AccountSettings represents account-level settings.
type AccountSettings struct {
	EnforceTwoFactor     bool   `json:"enforce_twofactor"             yaml:"enforce_twofactor"`
	DefaultNameservers   string `json:"default_nameservers,omitempty" yaml:"default_nameservers,omitempty"`
	AbuseContactEmail    string `json:"abuse_contact_email,omitempty" yaml:"abuse_contact_email,omitempty"`
	UseCustomNSByDefault bool   `json:"use_custom_ns_by_default"      yaml:"use_custom_ns_by_default"`
}

// AccountUpdateRequest represents a request to update an account.
type AccountUpdateRequest struct {
	Name     *string          `json:"name,omitempty"     yaml:"name,omitempty"`
	Settings *AccountSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// AuditEvent represents an entry in the account audit log.
type AuditEvent struct {
	ID       string                 `json:"id"                  yaml:"id"`
	Action   AuditEventAction       `json:"action"              yaml:"action"`
	Actor    AuditEventActor        `json:"actor"               yaml:"actor"`
	Resource AuditEventResource     `json:"resource"            yaml:"resource"`
	Metadata map[string]interface{} `json:"metadata,omitempty"  yaml:"metadata,omitempty"`
	NewValue string                 `json:"new_value,omitempty" yaml:"new_value,omitempty"`
	OldValue string                 `json:"old_value,omitempty" yaml:"old_value,omitempty"`
	When     time.Time              `json:"when"                yaml:"when"`
}

// AuditEventAction describes what an audit event recorded.
type AuditEventAction struct {
	Type   string `json:"type"   yaml:"type"`
	Result bool   `json:"result" yaml:"result"`
}

// AuditEventActor identifies who performed an audited action.
type AuditEventActor struct {
	ID    string `json:"id"              yaml:"id"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	IP    string `json:"ip,omitempty"    yaml:"ip,omitempty"`
	Type  string `json:"type"            yaml:"type"`
}

// AuditEventResource identifies what an audited action touched.
type AuditEventResource struct {
	ID   string `json:"id"   yaml:"id"`
	Type string `json:"type" yaml:"type"`
}

// SecurityEvent represents a firewall activity log entry.
type SecurityEvent struct {
	ID         string    `json:"id"                  yaml:"id"`
	Action     string    `json:"action"              yaml:"action"`
	ClientIP   string    `json:"client_ip"           yaml:"client_ip"`
	Country    string    `json:"country,omitempty"   yaml:"country,omitempty"`
	Host       string    `json:"host"                yaml:"host"`
	Method     string    `json:"method"              yaml:"method"`
	Proto      string    `json:"proto,omitempty"     yaml:"proto,omitempty"`
	RuleID     string    `json:"rule_id,omitempty"   yaml:"rule_id,omitempty"`
	Source     string    `json:"source,omitempty"    yaml:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"         yaml:"occurred_at"`
}

// ZonesList represents a paginated list of Zone resources.
type ZonesList = ListResponse[Zone]

// DNSRecordsList represents a paginated list of DNSRecord resources.
type DNSRecordsList = ListResponse[DNSRecord]

// AuditEventsList represents a paginated list of AuditEvent resources.
type AuditEventsList = ListResponse[AuditEvent]
