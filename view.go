package devcard

const (
	githubUrlPrefix = "https://github.com/"
	qiitaUrlPrefix  = "https://qiita.com/"
	xUrlPrefix      = "https://x.com/"
)

// ProfileView is the denormalized, read-only projection of a profile rendered on a card.
type ProfileView struct {
	UserId      UserId   `json:"user_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GithubId    *string  `json:"github_id"`
	QiitaId     *string  `json:"qiita_id"`
	XId         *string  `json:"x_id"`
	Skills      []string `json:"skills"`
	GithubUrl   *string  `json:"githubUrl"`
	QiitaUrl    *string  `json:"qiitaUrl"`
	XUrl        *string  `json:"xUrl"`
}

func NewProfileView(p Profile, skills []string) ProfileView {
	if skills == nil {
		skills = []string{}
	}
	return ProfileView{
		UserId:      p.UserId,
		Name:        p.Name,
		Description: p.Description,
		GithubId:    p.GithubId,
		QiitaId:     p.QiitaId,
		XId:         p.XId,
		Skills:      skills,
		GithubUrl:   accountUrl(githubUrlPrefix, p.GithubId),
		QiitaUrl:    accountUrl(qiitaUrlPrefix, p.QiitaId),
		XUrl:        accountUrl(xUrlPrefix, p.XId),
	}
}

func accountUrl(prefix string, id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	url := prefix + *id
	return &url
}
