package resume

import (
	"fmt"
	"sort"
	"strings"
)

// section 是一个栏目的无状态绘制策略：present 判断记录中是否有内容，
// draw 把内容写入当前栏。
type section struct {
	present func(r *Record) bool
	draw    func(w *writer) error
}

var sections = map[string]section{
	"contact":      {present: func(*Record) bool { return true }, draw: drawContact},
	"summary":      {present: func(r *Record) bool { return r.ProfileSummary.String() != "" }, draw: drawSummary},
	"experience":   {present: func(r *Record) bool { return len(r.Experiences) > 0 }, draw: drawExperience},
	"education":    {present: func(r *Record) bool { return len(r.Educations) > 0 }, draw: drawEducation},
	"projects":     {present: func(r *Record) bool { return len(r.Projects) > 0 }, draw: drawProjects},
	"skills":       {present: hasSkills, draw: drawSkills},
	"certificates": {present: func(r *Record) bool { return len(r.Certificates.Strings()) > 0 }, draw: drawCertificates},
	"publications": {present: func(r *Record) bool { return len(r.Publications.Strings()) > 0 }, draw: drawPublications},
	"awards":       {present: func(r *Record) bool { return len(r.Awards) > 0 }, draw: drawAwards},
	"languages":    {present: func(r *Record) bool { return len(r.Languages) > 0 }, draw: drawLanguages},
	"references":   {present: func(r *Record) bool { return len(r.References) > 0 }, draw: drawReferences},
	"volunteer":    {present: func(r *Record) bool { return len(r.Volunteering) > 0 }, draw: drawVolunteer},
}

// Sections 返回主题中可使用的栏目名。
func Sections() []string {
	names := make([]string, 0, len(sections))
	for n := range sections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func lookupSection(name string) (section, error) {
	s, ok := sections[name]
	if !ok {
		return section{}, fmt.Errorf("resume: 未知栏目 %q（可用：%s）", name, strings.Join(Sections(), ", "))
	}
	return s, nil
}

func drawContact(w *writer) error {
	r, l := w.rec, w.loc.Labels
	if err := w.title(l.Contact, textLead(textGapPt, w.primary(0))); err != nil {
		return err
	}
	for _, line := range []string{
		labelled(l.Email, r.Email.String()),
		labelled(l.Phone, r.Phone.String()),
		labelled(l.Address, r.Address.String()),
	} {
		if err := w.text(line, textGapPt, w.primary(0)); err != nil {
			return err
		}
	}
	if social := joinNonEmpty(" | ", r.LinkedIn.String(), r.GitHub.String(), r.Website.String()); social != "" {
		if err := w.text(social, textGapPt, w.link(-1)); err != nil {
			return err
		}
	}
	if dob := r.DateOfBirth.String(); dob != "" {
		if err := w.text(labelled(l.DateOfBirth, dob), detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
	}
	if nat := r.Nationality.String(); nat != "" {
		if err := w.text(labelled(l.Nationality, nat), detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
	}
	return nil
}

func drawSummary(w *writer) error {
	if err := w.title(w.loc.Labels.Summary, textLead(textGapPt, w.secondary(0))); err != nil {
		return err
	}
	return w.text(w.rec.ProfileSummary.String(), textGapPt, w.secondary(0))
}

func drawExperience(w *writer) error {
	l := w.loc.Labels
	if err := w.title(l.Experience, textLead(0, w.style(1, w.th.Colors.TextPrimary, bold))); err != nil {
		return err
	}
	for _, exp := range w.rec.Experiences {
		head := exp.PositionName.String() + " — " + exp.CompanyName.String()
		if loc := exp.Location.String(); loc != "" {
			head += " (" + loc + ")"
		}
		if err := w.text(head, 0, w.style(1, w.th.Colors.TextPrimary, bold)); err != nil {
			return err
		}
		period := w.loc.Period(exp.StartPeriod.String(), exp.EndPeriod.String())
		if err := w.text(period, detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
		if err := w.bullets(exp.Description.Strings(), detailGapPt, -1); err != nil {
			return err
		}
		if tech := exp.Technologies.Strings(); len(tech) > 0 {
			if err := w.text(labelled(l.Tech, strings.Join(tech, ", ")), detailGapPt, w.secondary(-2)); err != nil {
				return err
			}
		}
		w.itemGap()
	}
	return nil
}

func drawEducation(w *writer) error {
	l := w.loc.Labels
	if err := w.title(l.Education, textLead(0, w.primary(0))); err != nil {
		return err
	}
	for _, edu := range w.rec.Educations {
		line := w.loc.Title(edu.Degree.String()) + " — " + edu.Institution.String()
		if err := w.text(line, 0, w.primary(0)); err != nil {
			return err
		}
		var bits []string
		if v := edu.Faculty.String(); v != "" {
			bits = append(bits, labelled(l.Faculty, v))
		}
		if v := edu.Major.String(); v != "" {
			bits = append(bits, labelled(l.Major, v))
		}
		if v := edu.CGPA.String(); v != "" {
			bits = append(bits, labelled(l.CGPA, v))
		}
		if err := w.text(strings.Join(bits, " • "), detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
		end := edu.EndYear.String()
		if end == "" {
			end = l.Present
		}
		if err := w.text(edu.StartYear.String()+" – "+end, detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
		if err := w.bullets(edu.Honors.Strings(), detailGapPt, -1); err != nil {
			return err
		}
		w.itemGap()
	}
	return nil
}

func drawProjects(w *writer) error {
	if err := w.title(w.loc.Labels.Projects, textLead(0, w.primary(0))); err != nil {
		return err
	}
	for _, p := range w.rec.Projects {
		head := p.Title.String()
		if techs := strings.Join(p.Technologies.Strings(), ", "); techs != "" {
			head += " — " + techs
		}
		if err := w.text(head, 0, w.primary(0)); err != nil {
			return err
		}
		if err := w.text(p.Description.String(), detailGapPt, w.primary(-1)); err != nil {
			return err
		}
		if err := w.text(p.Link.String(), detailGapPt, w.link(-1)); err != nil {
			return err
		}
		period := w.loc.Period(p.StartPeriod.String(), p.EndPeriod.String())
		if err := w.text(period, detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
		w.itemGap()
	}
	return nil
}

func hasSkills(r *Record) bool {
	return len(r.Skills.Strings()) > 0 || len(r.TechnicalSkills) > 0 || len(r.SoftSkills.Strings()) > 0
}

func drawSkills(w *writer) error {
	r, l := w.rec, w.loc.Labels
	if skills := r.Skills.Strings(); len(skills) > 0 {
		if err := w.title(l.Skills, w.bulletLead(detailGapPt, 0)); err != nil {
			return err
		}
		if err := w.bullets(skills, detailGapPt, 0); err != nil {
			return err
		}
		w.itemGap()
	}
	if len(r.TechnicalSkills) > 0 {
		if err := w.title(l.TechnicalSkills, textLead(0, w.secondary(-1))); err != nil {
			return err
		}
		for _, g := range r.TechnicalSkills {
			name := w.loc.Title(strings.ReplaceAll(g.Name, "_", " "))
			if err := w.text(labelled(name, strings.Join(g.Values, ", ")), 0, w.secondary(-1)); err != nil {
				return err
			}
			w.skip(detailGapPt)
		}
	}
	if soft := r.SoftSkills.Strings(); len(soft) > 0 {
		if err := w.title(l.SoftSkills, w.bulletLead(detailGapPt, 0)); err != nil {
			return err
		}
		if err := w.bullets(soft, detailGapPt, 0); err != nil {
			return err
		}
	}
	return nil
}

func drawCertificates(w *writer) error {
	if err := w.title(w.loc.Labels.Certificates, w.bulletLead(detailGapPt, 0)); err != nil {
		return err
	}
	return w.bullets(w.rec.Certificates.Strings(), detailGapPt, 0)
}

func drawPublications(w *writer) error {
	if err := w.title(w.loc.Labels.Publications, w.bulletLead(detailGapPt, 0)); err != nil {
		return err
	}
	return w.bullets(w.rec.Publications.Strings(), detailGapPt, 0)
}

func drawAwards(w *writer) error {
	if err := w.title(w.loc.Labels.Awards, textLead(0, w.primary(0))); err != nil {
		return err
	}
	for _, a := range w.rec.Awards {
		line := a.Name.String()
		if tail := joinNonEmpty(", ", a.Issuer.String(), a.Year.String()); tail != "" {
			line += " — " + tail
		}
		if err := w.text(line, 0, w.primary(0)); err != nil {
			return err
		}
		if err := w.text(a.Description.String(), detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
		w.itemGap()
	}
	return nil
}

func drawLanguages(w *writer) error {
	if err := w.title(w.loc.Labels.Languages, w.bulletLead(detailGapPt, 0)); err != nil {
		return err
	}
	items := make([]string, 0, len(w.rec.Languages))
	for _, sl := range w.rec.Languages {
		item := strings.Trim(sl.Language.String()+" — "+sl.Proficiency.String(), " —")
		items = append(items, item)
	}
	return w.bullets(items, detailGapPt, 0)
}

func drawReferences(w *writer) error {
	if err := w.title(w.loc.Labels.References, textLead(0, w.primary(0))); err != nil {
		return err
	}
	for _, ref := range w.rec.References {
		line := ref.Name.String()
		if meta := joinNonEmpty(", ", ref.Relationship.String(), ref.Company.String()); meta != "" {
			line += " (" + meta + ")"
		}
		if c := ref.Contact.String(); c != "" {
			line += " — " + c
		}
		if err := w.text(line, 0, w.primary(0)); err != nil {
			return err
		}
		w.itemGap()
	}
	return nil
}

func drawVolunteer(w *writer) error {
	if err := w.title(w.loc.Labels.Volunteer, textLead(0, w.primary(0))); err != nil {
		return err
	}
	for _, v := range w.rec.Volunteering {
		if err := w.text(v.Role.String()+" — "+v.Organization.String(), 0, w.primary(0)); err != nil {
			return err
		}
		period := w.loc.Period(v.StartPeriod.String(), v.EndPeriod.String())
		if err := w.text(period, detailGapPt, w.secondary(-1)); err != nil {
			return err
		}
		if err := w.bullets(v.Activities.Strings(), detailGapPt, -1); err != nil {
			return err
		}
		w.itemGap()
	}
	return nil
}
