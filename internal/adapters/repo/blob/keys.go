package blob

const (
	KeySession          = "session"
	KeyPools            = "pools"
	KeyViewingPoolID    = "viewing_pool_id"
	KeyHostelPreference = "hostel_preference"
)
