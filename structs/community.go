package structs

type CreateThoughtRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content" binding:"required"`
	Category        string `json:"category" binding:"required"`
	ParentThoughtID string `json:"parentThoughtId,omitempty"`
}

type DefinitionPayload struct {
	Term       string `json:"term" binding:"required"`
	Definition string `json:"definition" binding:"required"`
}

type CreatePositionRequest struct {
	Title       string              `json:"title"`
	Thesis      string              `json:"thesis" binding:"required"`
	Definitions []DefinitionPayload `json:"definitions"`
	Sources     []string            `json:"sources"`
	Category    string              `json:"category" binding:"required"`
}

type PromoteThoughtRequest struct {
	Thesis      string              `json:"thesis" binding:"required"`
	Definitions []DefinitionPayload `json:"definitions"`
	Sources     []string            `json:"sources"`
}

type UpdateProfileRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
}
