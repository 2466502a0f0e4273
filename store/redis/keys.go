package redis

// Redis key naming conventions for storefront data.
// All keys are prefixed with "storefront:" to avoid collisions.

const keyPrefix = "storefront:"

// ── Session progress keys ──

// progressKey returns the key for a session's persisted progress:
// storefront:progress:{sessionKey}
func progressKey(sessionKey string) string { return keyPrefix + "progress:" + sessionKey }

// ── Cart keys ──

// cartKey returns the key for a guest cart mirror: storefront:cart:{sessionKey}
func cartKey(sessionKey string) string { return keyPrefix + "cart:" + sessionKey }

// ── Announcement keys ──

// announcementKey returns the key for an announcement: storefront:announcement:{id}
func announcementKey(id string) string { return keyPrefix + "announcement:" + id }

// announcementIDsKey is the Set tracking all announcement IDs for enumeration.
const announcementIDsKey = keyPrefix + "announcement_ids"

// ── Campaign keys ──

// campaignKey returns the key for a campaign: storefront:campaign:{id}
func campaignKey(id string) string { return keyPrefix + "campaign:" + id }

// campaignIDsKey is the Set tracking all campaign IDs for enumeration.
const campaignIDsKey = keyPrefix + "campaign_ids"

// ── Dismissal keys ──

// dismissalKey returns the Set key of announcement IDs a session has
// dismissed: storefront:dismissed:{sessionKey}
func dismissalKey(sessionKey string) string { return keyPrefix + "dismissed:" + sessionKey }
