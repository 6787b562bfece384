package authz

// The request carries a relation between the actor and the resource owner so
// that ownership rules live in the policy instead of in handlers.
const embeddedModel = `
[request_definition]
r = sub, obj, act, rel

[policy_definition]
p = sub, obj, act, rel

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act && (p.rel == "*" || r.rel == p.rel)
`

// Roles inherit upwards: admin > moderator > user > anonymous.
const embeddedPolicy = `
p, anonymous, categories, read, *
p, anonymous, genres, read, *
p, anonymous, titles, read, *
p, anonymous, reviews, read, *
p, anonymous, comments, read, *

p, user, reviews, write, owner
p, user, comments, write, owner

p, moderator, reviews, write, *
p, moderator, comments, write, *

p, admin, *, write, *
p, admin, users, read, *

g, user, anonymous
g, moderator, user
g, admin, moderator
`
