package user

const (
	// collection name
	userNode string = "users"

	// Fields' name and path
	UsernameFieldPath  string = "username"
	PfpFieldPath       string = "pfp"
	CreatedAtFieldPath string = "createdAt"
)
